package registry

import "leon/internal/cxindex"

// Visit walks the translation unit cursor and dispatches every declaration
// located in the main file to its registry. Class templates and their
// partial specializations are skipped.
func (r *Registry) Visit(root cxindex.Cursor) error {
	var walkErr error
	root.VisitChildren(func(cur, parent cxindex.Cursor) cxindex.VisitResult {
		if !cur.InMainFile() {
			return cxindex.VisitContinue
		}

		switch cur.Kind() {
		case cxindex.CursorClassTemplate, cxindex.CursorClassTemplatePartialSpecialization:
			return cxindex.VisitContinue

		case cxindex.CursorClassDecl, cxindex.CursorStructDecl:
			if err := r.RegisterClass(cur); err != nil {
				walkErr = err
				return cxindex.VisitBreak
			}
			return cxindex.VisitContinue

		case cxindex.CursorEnumDecl:
			if err := r.RegisterEnum(cur); err != nil {
				walkErr = err
				return cxindex.VisitBreak
			}
			return cxindex.VisitContinue

		case cxindex.CursorFunctionDecl:
			if err := r.RegisterFunction(cur); err != nil {
				walkErr = err
				return cxindex.VisitBreak
			}
			return cxindex.VisitContinue
		}

		return cxindex.VisitRecurse
	})
	return walkErr
}
