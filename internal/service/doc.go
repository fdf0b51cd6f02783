// Package service implements the application's use cases: application and
// resume CRUD with ownership checks, monthly stats aggregation, AI job
// enqueueing and result reconciliation, and the follow-up reminder sweep.
// Services depend on the store interfaces, never on concrete databases, and
// wrap failures in ServiceError for the API layer to translate.
package service
