// Package analytics computes statistics for a recorded freestyle take.
package analytics
