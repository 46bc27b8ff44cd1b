// Package discover finds the embedded resources a browser would load for an
// HTML page: stylesheets, icons, scripts, images, frames and background
// images.
//
// Two Discoverers are provided, one built on goquery CSS selectors and one on
// htmlquery XPath. Both return absolute URLs in document order with duplicates
// kept, resolve against <base href> when present, and decode non-UTF-8 bodies
// after chardet detection.
package discover
