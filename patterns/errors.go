package patterns

import "errors"

// ErrRecursiveNotification is returned by LazyObject.Update when the object is
// notified again while it is still forwarding a previous notification. It
// means the observer graph contains a cycle.
var ErrRecursiveNotification = errors.New("recursive notification loop detected")

// ErrCalculationFailed wraps every error returned by a Calculator.
var ErrCalculationFailed = errors.New("calculation failed")

// ErrObserverPanicked wraps a panic recovered while delivering a notification.
var ErrObserverPanicked = errors.New("observer panicked during update")
