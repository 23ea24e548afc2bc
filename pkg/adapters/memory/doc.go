// Package memory provides the in-process session store with idle expiry.
package memory
