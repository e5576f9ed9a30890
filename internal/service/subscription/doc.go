// Package subscription implements the newsletter sign-up and confirmation
// workflow.
//
// Subscribe validates a raw submission, persists the subscription in
// pending_confirmation, issues a single-use token, and asks the email
// collaborator to deliver the confirmation link. Confirm exchanges a token
// for the pending → confirmed transition.
//
// The service layer contains pure business logic and depends on the
// Repository and EmailSender interfaces defined in repository.go. It never
// imports net/http or database/sql directly.
package subscription
