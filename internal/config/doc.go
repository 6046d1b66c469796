// Package config defines the format-agnostic sheet model: the attribute
// definitions and initial values an application loads before building its
// store, along with the Loader interface that produces it.
//
// Concrete loaders, such as the HCL one, live in separate packages. The app
// package only ever sees a *Sheet.
package config
