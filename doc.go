// Package catalog holds the data model shared by every stage of the
// application-catalog pipeline: the App entity and its veto/requires-appdata
// bookkeeping, releases, screenshots and their rendered images, and the
// error taxonomy raised by package, plugin, and writer code.
package catalog
