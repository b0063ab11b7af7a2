package caption

// ApplyCorrection merges an externally corrected word sequence into the
// document, position by position. The corrected sequence must contain exactly
// one word per caption; if the counts differ the whole correction is rejected
// and the document is left untouched (ok == false). No realignment or fuzzy
// matching is attempted.
//
// For each position where the corrected word differs, the prior text is kept
// in Original, Text is replaced, and Enhanced is set. Unchanged positions are
// not marked. Returns the number of changed captions.
func ApplyCorrection(doc *Document, corrected []string) (changed int, ok bool) {
	if len(corrected) != len(doc.Captions) {
		return 0, false
	}

	for i := range doc.Captions {
		c := &doc.Captions[i]
		if c.Text == corrected[i] {
			continue
		}
		c.Original = c.Text
		c.Text = corrected[i]
		c.Enhanced = true
		changed++
	}
	return changed, true
}
