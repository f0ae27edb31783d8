package workspace

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/xid"
)

// IDSource produces fresh unique tokens. Implementations must not hand out
// the same token twice within a process.
type IDSource interface {
	NewID() string
}

// GUIDSource produces braced, upper-case GUIDs as Visual Studio expects them,
// e.g. {0F2D6A4C-7B1E-4C38-9A55-2E0B6F1C9D42}.
type GUIDSource struct{}

// NewID implements IDSource.
func (GUIDSource) NewID() string {
	return "{" + strings.ToUpper(uuid.NewString()) + "}"
}

// ResourceIDSource produces 24 upper-case hex characters, the 96-bit object
// identifier format used inside Xcode project files.
type ResourceIDSource struct{}

// NewID implements IDSource.
func (ResourceIDSource) NewID() string {
	id := xid.New()
	return strings.ToUpper(hex.EncodeToString(id.Bytes()))
}

// IDSourceFunc adapts a plain function to IDSource.
type IDSourceFunc func() string

// NewID implements IDSource.
func (f IDSourceFunc) NewID() string { return f() }
