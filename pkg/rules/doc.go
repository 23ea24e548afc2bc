/*
Package rules implements the Rule Store: eligibility rules loaded once per
process from a tabular source into a read-only, in-memory Table.

Two sources are supported:

  - Spreadsheets (.xlsx) with the sheets "Module", "Studiengänge", "Allgemein"
    and the optional "Modulzusammensetzung" (English aliases "Modules",
    "Programs", "General" and "Module Composition" are accepted).
  - YAML documents with the same logical structure, used for fixtures and
    deployments that keep their rules under version control.

A failed load returns a *LoadError. Callers are expected to fall back to Empty()
and keep serving in degraded mode.
*/
package rules
