// Package domain holds the business entities of the job tracker — users,
// applications, resumes, monthly stats, AI analysis results — along with
// their validation rules. It has no infrastructure dependencies.
package domain
