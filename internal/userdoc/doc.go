// Package userdoc extracts user documentation blocks from source files and
// rewrites their structural sections.
//
// # Markers
//
// A documentation block starts with the literal token BeginUserDocs, which may
// be followed by a colon and a comma separated list of tags up to the end of
// the line, and ends with the literal token EndUserDocs:
//
//	/* BeginUserDocs: neuron, integrate-and-fire
//
//	Short description
//	+++++++++++++++++
//
//	Leaky integrate-and-fire neuron model
//
//	See also
//	++++++++
//
//	EndUserDocs */
//
// Tags may contain spaces, so multi-word tags need no underscores or hyphens.
//
// # Rewrites
//
// Documents are values. [RewriteShortDescription] and [RewriteSeeAlso] return
// a new [Document] and never modify their argument, so a pipeline can keep the
// last good revision when a later step fails.
package userdoc
