package capmath

import "errors"

// Sentinel kinds for cap accounting.
var (
	ErrThresholdOrder = errors.New("cap thresholds must ascend")
)
