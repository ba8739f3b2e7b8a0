package notify

import "errors"

var ErrDelivery = errors.New("notification delivery failed")
