// Package sanitizer neutralises free-text form input before it is stored or
// interpolated into outbound email markup.
//
// Sanitize is not an HTML escaper. It removes the handful of constructs that
// turn plain text into active markup (angle brackets, javascript: schemes,
// inline on*= handlers), trims, and caps the length. Callers rendering HTML
// still escape on output.
package sanitizer
