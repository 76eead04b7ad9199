package annotate

// Hallmark profile names used by the core-biosynthetic signature set and
// the subtype rules. These follow Pfam naming for the shared profiles and
// the usual short names for the fungal PKS product-template and
// starter-unit domains.
const (
	profileKS  = "PKS_KS"          // ketosynthase
	profileAT  = "PKS_AT"          // acyltransferase
	profileSAT = "SAT"             // starter-unit ACP transacylase
	profilePT  = "PT"              // product template
	profileKR  = "KR"              // ketoreductase
	profileDH  = "PS-DH"           // dehydratase
	profileER  = "PKS_ER"          // enoylreductase
	profileC   = "Condensation"    // NRPS condensation
	profileA   = "AMP-binding"     // NRPS adenylation
	profileDMA = "Trp_DMAT"        // dimethylallyl tryptophan synthase
	profileTC  = "Terpene_synth_C" // terpene cyclase
	profileTRI = "TRI5"            // trichodiene synthase
	profileCHS = "Chal_sti_synt_N" // chalcone synthase (type III PKS)
)

// DefaultCoreSignatures marks the profiles whose presence flags a protein
// as core biosynthetic.
var DefaultCoreSignatures = map[string]bool{
	profileKS:  true,
	profileC:   true,
	profileA:   true,
	profileDMA: true,
	profileTC:  true,
	profileTRI: true,
	profileCHS: true,
}

// Rule is one pattern matcher of the subtype table. A rule matches when
// every Requires profile is present and no Excludes profile is.
type Rule struct {
	Label    string
	Requires []string
	Excludes []string
}

// Match reports whether the rule applies to the given profile set.
func (r Rule) Match(present map[string]bool) bool {
	for _, id := range r.Requires {
		if !present[id] {
			return false
		}
	}
	for _, id := range r.Excludes {
		if present[id] {
			return false
		}
	}
	return true
}

// DefaultRules is the subtype table, evaluated in order with first match
// winning. More specific combinations come before their generalizations:
// a KS+Condensation protein is a hybrid, not a plain PKS.
var DefaultRules = []Rule{
	{Label: "PKS-NRPS_hybrid", Requires: []string{profileKS, profileC}},
	{Label: "nrPKS", Requires: []string{profileKS, profilePT}},
	{Label: "nrPKS", Requires: []string{profileKS, profileSAT}, Excludes: []string{profileKR}},
	{Label: "hrPKS", Requires: []string{profileKS, profileKR}},
	{Label: "prPKS", Requires: []string{profileKS, profileDH}},
	{Label: "otherPKS", Requires: []string{profileKS}},
	{Label: "t3PKS", Requires: []string{profileCHS}},
	{Label: "NRPS", Requires: []string{profileC, profileA}},
	{Label: "NRPS-like", Requires: []string{profileA}, Excludes: []string{profileC}},
	{Label: "DMAT", Requires: []string{profileDMA}},
	{Label: "TC", Requires: []string{profileTC}},
	{Label: "TC", Requires: []string{profileTRI}},
}

// Classify returns the subtype label for the given profile set, or "" when
// no rule matches.
func Classify(present map[string]bool, rules []Rule) string {
	for _, r := range rules {
		if r.Match(present) {
			return r.Label
		}
	}
	return ""
}
