package resolve

import (
	"asn1tool.dev/asn1"
	"asn1tool.dev/asn1/model"
	"asn1tool.dev/asn1/syntax"
)

func (c *context) resolveStructured(scope *moduleScope, te *syntax.StructuredType) (*model.Type, error) {
	t := c.arena.NewType()
	if te.IsSet {
		t.Kind = model.KindSet
	} else {
		t.Kind = model.KindSequence
	}
	t.Tag = universalTag(t.Kind)
	t.Extensible = te.Extensible

	anyExplicit := false
	for _, md := range te.Members {
		mt, err := c.resolveTypeExpr(scope, md.Type)
		if err != nil {
			return nil, err
		}
		anyExplicit = anyExplicit || isSourceTagged(md.Type)
		member := model.Member{
			Name:           md.Name,
			TypeIndex:      mt.Index,
			Tag:            mt.Tag,
			Optional:       md.Optional,
			ExtensionGroup: md.ExtensionGroup,
		}
		if md.Default != nil {
			dv, err := c.resolveValue(scope, mt, md.Default)
			if err != nil {
				return nil, err
			}
			member.Default = dv
		}
		t.Members = append(t.Members, member)
	}
	if !anyExplicit {
		assignAutomaticTags(t, scope.mod.Tagging)
	}
	if err := checkUniqueTags(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (c *context) resolveChoice(scope *moduleScope, te *syntax.ChoiceType) (*model.Type, error) {
	t := c.arena.NewType()
	t.Kind = model.KindChoice
	t.Extensible = te.Extensible

	anyExplicit := false
	for _, md := range te.Alternatives {
		mt, err := c.resolveTypeExpr(scope, md.Type)
		if err != nil {
			return nil, err
		}
		anyExplicit = anyExplicit || isSourceTagged(md.Type)
		t.Members = append(t.Members, model.Member{
			Name:           md.Name,
			TypeIndex:      mt.Index,
			Tag:            mt.Tag,
			ExtensionGroup: md.ExtensionGroup,
		})
	}
	if !anyExplicit {
		assignAutomaticTags(t, scope.mod.Tagging)
	}
	if err := checkUniqueTags(t); err != nil {
		return nil, err
	}
	return t, nil
}

// isSourceTagged reports whether te carries an explicit "[n]" tag in
// source, looking through a trailing constraint wrapper so
// "[1] IMPLICIT INTEGER (0..10)" is still recognized.
func isSourceTagged(te syntax.TypeExpr) bool {
	switch v := te.(type) {
	case *syntax.TaggedType:
		return true
	case *syntax.ConstrainedTypeExpr:
		return isSourceTagged(v.Inner)
	}
	return false
}

// checkUniqueTags enforces spec §3's invariant that every member tag
// within a SEQUENCE/SET is unique, and every alternative tag within a
// CHOICE (including recursively through untagged CHOICE alternatives) is
// unique.
func checkUniqueTags(t *model.Type) error {
	seen := make(map[uint16]string, len(t.Members))
	for i, m := range t.Members {
		for _, tag := range memberEffectiveTags(t.MemberType(i), m.Tag) {
			if name, dup := seen[tag]; dup {
				return errf(DuplicateTag, t.Module, t.Name, nil, "members %q and %q share a tag", name, m.Name)
			}
			seen[tag] = m.Name
		}
	}
	return nil
}

// memberEffectiveTags returns the tag(s) that would appear on the wire for
// a member of type memberType with assigned tag ownTag: the tag itself,
// or — if memberType is an untagged CHOICE — the tags of every
// alternative of that nested CHOICE, recursively (X.680 §30.6's rule that
// a CHOICE contributes no tag of its own).
func memberEffectiveTags(memberType *model.Type, ownTag asn1.Tag) []uint16 {
	if memberType.Kind == model.KindChoice {
		var out []uint16
		for i, alt := range memberType.Members {
			out = append(out, memberEffectiveTags(memberType.MemberType(i), alt.Tag)...)
		}
		return out
	}
	return []uint16{uint16(ownTag)}
}
