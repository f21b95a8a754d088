package domain

import "errors"

// ErrConfiguration is wrapped by every error that prevents a run from
// starting: invalid distributions, invalid run parameters, unresolvable
// strategies. It is never recovered internally.
var ErrConfiguration = errors.New("configuration error")
