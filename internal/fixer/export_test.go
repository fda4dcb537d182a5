package fixer

// Replacements exposes the recorded replacements to tests.
func (f *Fixer) Replacements() map[int]string { return f.replacements }

// Additions exposes the recorded additions to tests.
func (f *Fixer) Additions() map[int]string { return f.additions }
