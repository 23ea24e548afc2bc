/*
Package domain contains the core domain models of the admission assistant.

It defines the entities of the interview and the decision it produces, such as
Questions, Preconditions, the Session State and the Decision. This package is
kept pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Question: A catalog entry (static, informational or computed).
  - Precondition: A conjunction of equality constraints gating a Question.
  - State: Captures the runtime snapshot of a session (Answers, Derived fields, Flags).
  - Decision: The structured outcome of an eligibility evaluation.
  - Reply: What the host returns to the applicant for a single turn.
*/
package domain
