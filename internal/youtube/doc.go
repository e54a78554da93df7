// Package youtube is a minimal YouTube Data API v3 client covering the
// surfaces tubelens needs: caption track listing and download, and top-level
// comment thread pagination.
//
// Requests are paced by a shared rate limiter so a burst of analyses does
// not burn the daily API quota. The API key is supplied per call because it
// lives in the settings store and can change between operations.
package youtube
