//go:build tools

package tools

// Mocks under pkg/**/mocks are generated with mockery; pinning it here keeps the version in go.mod.
import (
	_ "github.com/vektra/mockery/v2"
)
