// Package xmlpath flattens XML documents into path-keyed records with exact
// source locations.
//
// # Overview
//
// Build descriptors (pom.xml, plugin reports, license definitions) are flat
// lists of repeated elements. Rather than unmarshaling into structs, a
// consumer registers a [Matcher] for the absolute path of the element it
// cares about, and receives one [Record] per occurrence:
//
//	deps := xmlpath.Match("/project/dependencies/dependency", func(r xmlpath.Record) {
//	    fmt.Println(r.Get("/groupId"), r.Get("/artifactId"), r.Range("/version"))
//	})
//	err := xmlpath.Parse(f, deps)
//
// Several matchers share a single traversal of the document, so passing
// every rule's matcher to one [Parse] call reads the input once. The
// document is buffered in full before the traversal.
//
// # Keys
//
// Keys are relative to the matched element:
//
//   - "" is the element's own text
//   - "/child" is the text of a child, "/child/leaf" of a grandchild
//   - "/child(1)", "/child(2)" are the second and third sibling with the
//     same name under the same parent (the first carries no index)
//   - ":attr" and "/child:attr" are attribute values
//
// Text is trimmed; blank text is dropped. [Record.ForEach] regroups the
// indexed siblings under a prefix into their own records.
//
// # Ranges
//
// Every [Value] carries the [Range] of its literal text in the source:
// 1-based lines and columns, columns counted in characters, the stop
// column pointing just past the last character. [Replace] rewrites that
// span in a slice of lines, which is how version bumps are applied without
// reformatting the document.
//
// # Limits
//
// This is not a general XML library. DOCTYPE declarations are rejected,
// namespaces are kept as raw prefixes, and documents are read fully into
// memory before tokenizing. ISO-8859-1 and windows-1252 documents are
// transcoded to UTF-8 first.
package xmlpath
