// Package pom models the modules of a Maven build.
//
// A [Pom] holds the coordinates of one module, the dependencies and
// plugins it declares (with the source range of each declaration), its
// properties and the dependency tree reported by the build. The tree is
// made of [Dependency] nodes rooted at [Pom.Root]; each node carries the
// candidate versions found for it and the licenses it declares.
//
// Poms are built by package maven and completed by package report. Once
// [Pom.UpdateRoot] has indexed the tree, [Pom.Duplicates] groups the nodes
// by group and artifact, and [Pom.PrintTree] writes the tree in the layout
// of mvn dependency:tree.
package pom
