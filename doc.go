/*
Package admitcheck is a conversational eligibility assistant for university
admissions.

It interviews an applicant through a branching question catalog, derives the
applicant category (bachelor, internal master, external master), evaluates the
answers against a rule table loaded from a spreadsheet and returns a decision
(admit, reject or undetermined) with itemized reasons.

# Concept

Every turn is a pure function of the session state and the input: the engine
stores the answer, then re-derives the next question from the catalog. Nothing
about the interview lives outside the state, so sessions can be kept in memory
or in Redis and resumed by any process.

The decision is computed once, from the structured rules, and then rendered.
An optional language model may phrase the explanation but never changes the
verdict; when it fails the assistant falls back to a deterministic template.

# Usage

	table, err := rules.Load("rules.xlsx")
	if err != nil {
		log.Fatal(err)
	}

	assistant, err := admitcheck.New(admitcheck.WithRules(table))
	if err != nil {
		log.Fatal(err)
	}

	reply, err := assistant.Chat(ctx, "user-42", "Master")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(reply.Text, reply.Choices, reply.Progress)

Transports live in pkg/adapters: an HTTP server (chi) and an MCP server. The
admitcheck command bundles both with a terminal chat and usage reports.
*/
package admitcheck
