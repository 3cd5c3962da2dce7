// Package sanitizer provides the text cleanup steps that run before any
// parsing of user-entered contact data.
//
// Functions never fail: they reduce input to a cleaner string, which may be
// empty, and leave judging the result to the caller.
//
// Cleanup includes:
//   - Phone text: drop "(0)" trunk markers, repair "o" typed for "0", keep only
//     digits and "+", turn a leading "00" into "+", collapse extra "+" signs
//   - Strings: collapse whitespace, trim leading/trailing spaces
//   - Headers: lowercase, strip byte order marks and " *" required markers
package sanitizer
