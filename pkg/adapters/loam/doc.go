// Package loam loads a question catalog from a directory of Markdown
// documents managed by Loam.
//
// Each question lives in its own file. The frontmatter carries the key,
// kind, choices and preconditions; the body is the prompt:
//
//	---
//	key: abschlussnote
//	order: 60
//	---
//	Wie lautet Ihre Abschlussnote?
package loam
