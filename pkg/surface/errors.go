package surface

import "errors"

// ErrMissingCollaborator is returned by NewSurface when a required
// collaborator (TerrainProvider or ImageryLayerCollection) is absent.
var ErrMissingCollaborator = errors.New("surface: missing required collaborator")
