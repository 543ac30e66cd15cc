// Package services implements the driving port interfaces.
// Services contain the core backup logic: instance directory allocation,
// backup location caching, snapshot writing, and the periodic scheduler
// that ties them together.
//
// Services are pure Go with no CGO dependencies.
package services
