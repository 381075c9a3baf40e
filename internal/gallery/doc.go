// Package gallery is the toolkit-independent controller behind the gallery
// view: the image list loader, the search/sort filter, the lightbox state
// machine, the comments panel and the email-gated like toggle.
//
// All state lives in one Session owned by the Controller and handed to each
// collaborator. Methods that react to user input (OpenAt, Next, ZoomIn,
// QueryChanged, Dispatch, ...) must be called on the UI event loop. Methods
// that talk to the server (Reload, Refresh, Load, Submit) block on the
// network and may be called from any goroutine; they apply their results
// through the Loop in the order responses arrive.
package gallery
