//go:build particledebug

package particle

const debugAssertions = true
