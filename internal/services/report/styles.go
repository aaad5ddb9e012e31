package report

import "fmt"

// Role identifies a semantic text style. Roles are a closed enumeration;
// asking for an unknown role is a programmer error, never user-triggered.
type Role string

const (
	RoleTitle         Role = "title"
	RoleSectionHeader Role = "section_header"
	RoleSubHeader     Role = "sub_header"
	RoleBody          Role = "body"
	RoleBodySmall     Role = "body_small"
	RoleTableHeader   Role = "table_header"
	RoleTableCell     Role = "table_cell"
	RoleBullet        Role = "bullet"
	RoleFooter        Role = "footer"
)

// RGB is an fpdf-ready color triple.
type RGB [3]int

// StyleSpec is the immutable font/color spec for one role.
type StyleSpec struct {
	Font  string
	Style string // "", "B", "I", "BI"
	Size  float64
	Color RGB
	Align string // "L", "C", "R", "J"
}

// Styles is the process-wide style registry. Built once at startup and
// shared read-only across requests.
type Styles struct {
	specs map[Role]StyleSpec

	// Semantic color constants
	HeaderBand      RGB // navy header band
	HeaderBandText  RGB
	FooterBand      RGB // light gray footer band
	FooterText      RGB
	TableHeaderFill RGB
	TableHeaderText RGB
	TableRowFill    RGB
	TableGrid       RGB
	Positive        RGB
	Negative        RGB
	Neutral         RGB
	Separator       RGB
}

// Professional blue palette carried over from the report template.
var (
	colorNavy      = RGB{30, 58, 138}   // #1E3A8A
	colorBlue      = RGB{59, 130, 246}  // #3B82F6
	colorBlueLight = RGB{239, 246, 255} // #EFF6FF
	colorBlueGrid  = RGB{219, 234, 254} // #DBEAFE
	colorSlate     = RGB{55, 65, 81}    // #374151
	colorInk       = RGB{31, 41, 55}    // #1F2937
	colorGrayBand  = RGB{229, 231, 235} // #E5E7EB
	colorGrayText  = RGB{107, 114, 128} // #6B7280
	colorGreen     = RGB{5, 150, 105}   // #059669
	colorRed       = RGB{220, 38, 38}   // #DC2626
	colorWhite     = RGB{255, 255, 255}
)

// DefaultStyles builds the registry with the fixed report palette.
func DefaultStyles() *Styles {
	return &Styles{
		specs: map[Role]StyleSpec{
			RoleTitle:         {Font: "Helvetica", Style: "B", Size: 16, Color: colorNavy, Align: "L"},
			RoleSectionHeader: {Font: "Helvetica", Style: "B", Size: 13, Color: colorNavy, Align: "L"},
			RoleSubHeader:     {Font: "Helvetica", Style: "B", Size: 11, Color: colorSlate, Align: "L"},
			RoleBody:          {Font: "Helvetica", Style: "", Size: 9, Color: colorInk, Align: "L"},
			RoleBodySmall:     {Font: "Helvetica", Style: "", Size: 8, Color: colorSlate, Align: "L"},
			RoleTableHeader:   {Font: "Helvetica", Style: "B", Size: 9, Color: colorWhite, Align: "C"},
			RoleTableCell:     {Font: "Helvetica", Style: "", Size: 8, Color: colorInk, Align: "C"},
			RoleBullet:        {Font: "Helvetica", Style: "", Size: 9, Color: colorInk, Align: "L"},
			RoleFooter:        {Font: "Helvetica", Style: "", Size: 8, Color: colorGrayText, Align: "L"},
		},
		HeaderBand:      colorNavy,
		HeaderBandText:  colorWhite,
		FooterBand:      colorGrayBand,
		FooterText:      colorGrayText,
		TableHeaderFill: colorBlue,
		TableHeaderText: colorWhite,
		TableRowFill:    colorBlueLight,
		TableGrid:       colorBlueGrid,
		Positive:        colorGreen,
		Negative:        colorRed,
		Neutral:         colorSlate,
		Separator:       colorGrayBand,
	}
}

// StyleFor returns the spec for a role. The role set is closed, so an error
// here means a coding mistake, not bad input.
func (s *Styles) StyleFor(role Role) (StyleSpec, error) {
	spec, ok := s.specs[role]
	if !ok {
		return StyleSpec{}, fmt.Errorf("unknown style role %q", role)
	}
	return spec, nil
}

// MustStyle is StyleFor for the renderers, which only use the fixed roles
// above. It panics on an unknown role; the composer's section recovery turns
// that into an omitted section rather than a failed document.
func (s *Styles) MustStyle(role Role) StyleSpec {
	spec, err := s.StyleFor(role)
	if err != nil {
		panic(err)
	}
	return spec
}
