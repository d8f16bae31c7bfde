// Package services implements the driving port interfaces.
//
// The core of the package is the conversation pipeline: Flatten turns an
// exported node graph into a linear transcript, Corpus holds the flattened
// conversations with a token index, and SearchService ranks them. The other
// services orchestrate archive loading, media lookup and settings through
// driven ports.
package services
