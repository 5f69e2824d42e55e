// Package series provides date-keyed daily quantities used by the nitrogen
// balance. A Series maps UTC-midnight days to values; traversal is always
// driven by an explicit chronological date slice built with DateSeries.
package series
