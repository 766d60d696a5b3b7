//go:build !particledebug

package particle

// debugAssertions turns configuration mistakes into panics. Enable with
// -tags particledebug.
const debugAssertions = false
