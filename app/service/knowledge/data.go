package knowledge

import "proplens/app/service/taxonomy"

// IssueDetail is the curated reference sheet for one issue category. Cost and
// timeline figures are national ballparks; replies must caveat them when no
// location hint is available.
type IssueDetail struct {
	RepairSteps   []string
	EstimatedCost string
	Timeline      string
	Prevention    []string
}

// ProfessionalInfo lists who to call for an issue and what to verify.
type ProfessionalInfo struct {
	Professionals  []string
	Qualifications string
}

type faqTopic struct {
	patterns []string
	response string
}

var issueDetails = map[taxonomy.Label]IssueDetail{
	taxonomy.Structural: {
		RepairSteps: []string{
			"Professional inspection by structural engineer",
			"Foundation assessment and soil testing",
			"Development of repair plan",
			"Installation of temporary support structures",
			"Repair or reinforce damaged structural elements",
			"Address any underlying foundation issues",
			"Final structural integrity verification",
		},
		EstimatedCost: "$5,000 - $25,000",
		Timeline:      "2-8 weeks",
		Prevention: []string{
			"Regular structural inspections",
			"Maintain proper drainage around foundation",
			"Monitor for new cracks or movement",
			"Address water issues promptly",
		},
	},
	taxonomy.Water: {
		RepairSteps: []string{
			"Emergency water extraction",
			"Identify and fix the water source",
			"Industrial drying of affected areas",
			"Moisture testing of walls and floors",
			"Remove damaged materials",
			"Sanitize and treat for mold prevention",
			"Replace damaged materials",
		},
		EstimatedCost: "$2,000 - $8,000",
		Timeline:      "1-2 weeks",
		Prevention: []string{
			"Regular plumbing inspections",
			"Install water detection systems",
			"Maintain proper ventilation",
			"Regular gutter maintenance",
		},
	},
	taxonomy.Mold: {
		RepairSteps: []string{
			"Professional mold inspection",
			"Air quality testing",
			"Containment setup",
			"HVAC system protection",
			"Remove affected materials",
			"Clean and sanitize area",
			"Apply preventive treatments",
		},
		EstimatedCost: "$500 - $6,000",
		Timeline:      "3-7 days",
		Prevention: []string{
			"Control indoor humidity (30-50%)",
			"Fix leaks immediately",
			"Improve ventilation",
			"Regular inspections",
		},
	},
	taxonomy.Electrical: {
		RepairSteps: []string{
			"Inspection by licensed electrician",
			"Circuit and panel testing",
			"Isolate and de-energize faulty circuits",
			"Replace damaged wiring and fixtures",
			"Verify grounding and load balance",
			"Final safety certification",
		},
		EstimatedCost: "$300 - $5,000",
		Timeline:      "1-5 days",
		Prevention: []string{
			"Periodic electrical inspections",
			"Avoid overloading circuits",
			"Replace aging wiring proactively",
			"Install surge protection",
		},
	},
	taxonomy.Plumbing: {
		RepairSteps: []string{
			"Inspection by licensed plumber",
			"Pressure and leak testing",
			"Repair or replace faulty pipes and joints",
			"Check drainage and venting",
			"Verify water pressure and flow",
		},
		EstimatedCost: "$150 - $4,000",
		Timeline:      "1-4 days",
		Prevention: []string{
			"Regular plumbing inspections",
			"Insulate pipes in cold areas",
			"Avoid chemical drain cleaners",
			"Address small leaks immediately",
		},
	},
	taxonomy.Cosmetic: {
		RepairSteps: []string{
			"Assess whether damage is superficial or structural",
			"Surface preparation and cleaning",
			"Repair or replace affected surfaces",
			"Prime and repaint",
			"Final finish inspection",
		},
		EstimatedCost: "$200 - $1,500",
		Timeline:      "1-3 days",
		Prevention: []string{
			"Regular maintenance checks",
			"Control indoor humidity",
			"Address moisture issues before repainting",
			"Touch up wear promptly",
		},
	},
}

var professionals = map[taxonomy.Label]ProfessionalInfo{
	taxonomy.Structural: {
		Professionals: []string{
			"Structural Engineer",
			"Licensed Building Contractor",
			"Foundation Specialist",
			"Construction Project Manager",
		},
		Qualifications: "Look for professionals with:\n- Licensed structural engineer certification\n- Experience with foundation repairs\n- Local building code knowledge\n- Insurance and bonding",
	},
	taxonomy.Water: {
		Professionals: []string{
			"Water Damage Restoration Specialist",
			"Licensed Plumber",
			"Moisture Control Expert",
			"Building Inspector",
		},
		Qualifications: "Look for professionals with:\n- IICRC certification\n- Water damage restoration experience\n- Mold remediation knowledge\n- Insurance claim experience",
	},
	taxonomy.Mold: {
		Professionals: []string{
			"Certified Mold Inspector",
			"Mold Remediation Specialist",
			"Indoor Air Quality Expert",
			"Environmental Hygienist",
		},
		Qualifications: "Look for professionals with:\n- IICRC or ACAC certification\n- Mold assessment experience\n- Air quality testing capabilities\n- Remediation protocol knowledge",
	},
	taxonomy.Electrical: {
		Professionals: []string{
			"Licensed Electrician",
			"Electrical Inspector",
			"Electrical Contractor",
		},
		Qualifications: "Look for professionals with:\n- State electrical license\n- Residential wiring experience\n- Code compliance knowledge\n- Insurance and bonding",
	},
	taxonomy.Plumbing: {
		Professionals: []string{
			"Licensed Plumber",
			"Plumbing Contractor",
			"Leak Detection Specialist",
		},
		Qualifications: "Look for professionals with:\n- State plumbing license\n- Leak detection equipment\n- Local code knowledge\n- Insurance and bonding",
	},
	taxonomy.Cosmetic: {
		Professionals: []string{
			"General Contractor",
			"Painting Contractor",
			"Handyman Service",
		},
		Qualifications: "Look for professionals with:\n- Verifiable references\n- Surface preparation experience\n- Insurance coverage\n- Written estimates",
	},
}

var faqTopics = map[string]faqTopic{
	"notice_period": {
		patterns: []string{"notice", "vacating", "move out", "leaving"},
		response: "The notice period typically depends on your lease agreement and local laws, but generally:\n1. For month-to-month tenancy: 30 days notice is standard\n2. For fixed-term leases: Check your lease agreement\n3. Some jurisdictions require 60 days notice\nAlways provide written notice and check your specific lease terms.",
	},
	"rent_increase": {
		patterns: []string{"increase rent", "raise rent", "rent hike"},
		response: "Regarding rent increases during a contract:\n1. During a fixed-term lease: Landlord cannot increase rent unless specified in the lease\n2. For month-to-month: Usually requires 30-60 days written notice\n3. Check local rent control laws\n4. Increases must be reasonable and follow local regulations",
	},
	"deposit_issues": {
		patterns: []string{"deposit", "security deposit", "not returning deposit"},
		response: "If your landlord isn't returning your deposit:\n1. Review your lease agreement\n2. Document property condition with photos/videos\n3. Send a formal written request\n4. Know your timeline (usually 21-30 days)\n5. Consider small claims court if necessary\n6. Contact a local tenant rights organization",
	},
	"rental_agreement": {
		patterns: []string{"rental agreement", "lease agreement", "before signing", "documents check"},
		response: "Key documents to check before signing a rental agreement:\n1. Lease agreement terms and conditions\n2. Property inspection report\n3. Maintenance responsibilities\n4. Utility arrangements\n5. Security deposit terms\n6. Pet policies\n7. Insurance requirements\n8. Property ownership verification",
	},
	"landlord_entry": {
		patterns: []string{"landlord enter", "entry without notice", "access property"},
		response: "Regarding landlord entry:\n1. Usually requires 24-48 hours notice\n2. Exceptions for emergencies\n3. Must be during reasonable hours\n4. Should have a legitimate reason\n5. Document unauthorized entries\n6. Know your right to privacy",
	},
	"subletting": {
		patterns: []string{"sublet", "sublease", "rent out"},
		response: "Regarding subletting:\n1. Check your lease agreement first\n2. Get written permission from the landlord\n3. Screen potential subtenants\n4. Create a formal sublease agreement\n5. Understand you're still responsible to the landlord\n6. Consider insurance implications",
	},
	"maintenance_rights": {
		patterns: []string{"maintenance", "repairs", "habitable"},
		response: "Your rights regarding maintenance issues:\n1. Right to habitable living conditions\n2. Document all issues with photos/videos\n3. Submit written repair requests\n4. Follow up in writing\n5. Know repair timeline requirements\n6. Possible remedies: rent withholding, repair and deduct\n7. Contact housing authorities if necessary",
	},
	"property_verification": {
		patterns: []string{"verify property", "check ownership", "legal owner"},
		response: "Steps to verify property ownership:\n1. Check public property records\n2. Request a title search\n3. Verify tax records\n4. Check for liens or encumbrances\n5. Use online property databases\n6. Consider title insurance\n7. Consult a real estate attorney",
	},
	"buying_process": {
		patterns: []string{"buying house", "purchase property", "steps buying"},
		response: "Steps in buying a house:\n1. Check financial readiness\n2. Get pre-approved for a mortgage\n3. Find a real estate agent\n4. House hunting\n5. Make an offer\n6. Home inspection\n7. Property appraisal\n8. Final mortgage approval\n9. Closing process",
	},
	"property_taxes": {
		patterns: []string{"property tax", "tax when buying", "purchase tax"},
		response: "Taxes involved in a property purchase:\n1. Property transfer tax\n2. Stamp duty (varies by location)\n3. Registration charges\n4. Capital gains tax (for the seller)\n5. Annual property tax\nConsider consulting a tax professional.",
	},
	"hidden_charges": {
		patterns: []string{"hidden charges", "additional costs", "extra fees"},
		response: "Common hidden charges in real estate:\n1. Property taxes\n2. Insurance costs\n3. Maintenance fees\n4. Utility deposits\n5. HOA/society charges\n6. Registration fees\n7. Legal fees\n8. Broker commission\n9. Renovation/repair costs",
	},
	"property_dispute": {
		patterns: []string{"dispute", "litigation", "legal issues"},
		response: "To check for property disputes:\n1. Search court records\n2. Check with the local property registrar\n3. Review the title insurance report\n4. Consult a property lawyer\n5. Check for encumbrances\n6. Verify tax payment history\n7. Review property documents",
	},
}
