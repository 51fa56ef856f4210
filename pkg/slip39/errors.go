package slip39

import "errors"

// ErrInvalidParams is returned for orchestration-level parameter
// mistakes (bad threshold/count combinations, mismatched group
// membership) that are not malformed wire data and so are not a
// mnemonic.Error (spec.md §7's "generic errors" category).
var ErrInvalidParams = errors.New("slip39: invalid parameters")
