/*
Package catalog defines the Question Catalog: the ordered list of question
definitions the interview walks through.

Catalogs are declared in YAML. The declared order is the tie-break rule when
several questions are eligible at the same time. A German default catalog is
embedded in the binary; deployments may replace it with their own file.
*/
package catalog
