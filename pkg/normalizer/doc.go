// Package normalizer turns free-form phone numbers and dates of birth into
// canonical, comparable strings.
//
// PhoneNormalizer produces E.164 numbers (+<country code><national number>).
// Cleanup is heuristic and biased towards a single default region: trunk
// zeros, bare calling codes and short mobile numbers are all interpreted with
// that region in mind before an external numbering plan accepts or rejects
// the candidate.
//
// DateNormalizer produces YYYY-MM-DD dates. Ambiguous input is resolved with
// two fixed rules:
//   - two-digit years pivot around a configurable boundary (00-25 is 20xx,
//     26-99 is 19xx by default)
//   - day comes before month unless the second number cannot be a month
//
// Both normalizers are stateless after construction and safe for concurrent
// use. They never panic on bad input; every call returns either a canonical
// value or a *Error describing why the input was rejected.
package normalizer
