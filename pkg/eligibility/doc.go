// Package eligibility turns a completed interview into a structured Decision.
//
// Evaluation dispatches on the derived applicant category. Bachelor applicants
// are judged by their entry qualification alone. Master applicants are judged
// by three formal criteria (grade, experience, technical English); internal
// applicants additionally have their earned credits compared against the
// target program, external applicants receive evidence instructions instead.
//
// Issue counts are bucketed coarsely: none admits, one or two is a grey zone
// for manual review, three or more rejects.
package eligibility
