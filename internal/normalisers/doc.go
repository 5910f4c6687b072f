// Package normalisers provides implementations of the Normaliser interface
// for the supported upload formats. Each normaliser knows how to extract text
// content from one format, identified by MIME type or file extension.
//
// Normalisers are registered with the Registry at startup; see RegisterDefaults.
package normalisers
