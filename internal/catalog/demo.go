package catalog

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mflister/lexicat/internal/models"
)

// demoFixtures is the offline glossary used when no catalog is configured.
// Terms are keyed into the assets map by lowercased name.
const demoFixtures = `
terms:
  - name: Customer Acquisition Cost (CAC)
    display_name: CAC
    description: >-
      The cost associated with acquiring a new customer, including marketing,
      sales, and onboarding expenses. This metric is crucial for understanding
      the efficiency of customer acquisition strategies.
    qualified_name: customer-acquisition-cost-cac@glossary
    guid: af6a32d4-936b-4a59-9917-7082c56ba443
    certificate: VERIFIED
    owner_users: [data.team, marketing.team]
    owner_groups: [data-governance]
  - name: Annual Recurring Revenue (ARR)
    display_name: ARR
    description: >-
      The normalized annual revenue from subscription-based contracts. ARR is
      a key metric for SaaS companies to measure predictable revenue streams.
    qualified_name: annual-recurring-revenue-arr@glossary
    guid: b7c8d9e0-f1a2-4b4c-8d6e-7f8a9b0c1d2e
    certificate: VERIFIED
    owner_users: [finance.team]
    owner_groups: [finance]
  - name: Customer Lifetime Value (CLV)
    display_name: CLV
    description: >-
      The total revenue a business can expect from a single customer account
      throughout their relationship. CLV helps in making informed decisions
      about customer acquisition and retention strategies.
    qualified_name: customer-lifetime-value-clv@glossary
    guid: c9d0e1f2-a3b4-4c6d-9e8f-9a0b1c2d3e4f
    certificate: DRAFT
    owner_users: [analytics.team]
    owner_groups: [analytics]
  - name: Monthly Recurring Revenue (MRR)
    display_name: MRR
    description: >-
      The normalized monthly revenue from subscription-based contracts. MRR is
      used to track revenue growth and predict future revenue.
    qualified_name: monthly-recurring-revenue-mrr@glossary
    guid: d1e2f3a4-b5c6-4d8e-9f0a-1b2c3d4e5f6a
    certificate: VERIFIED
    owner_users: [finance.team]
    owner_groups: [finance]
  - name: Churn Rate
    display_name: Churn Rate
    description: >-
      The rate at which customers cancel their subscriptions or stop using a
      service. Churn rate is a critical metric for understanding customer
      retention.
    qualified_name: churn-rate@glossary
    guid: e3f4a5b6-c7d8-4e0f-9a1b-3c4d5e6f7a8b
    certificate: VERIFIED
    owner_users: [customer.success.team]
    owner_groups: [customer-success]

assets:
  customer acquisition cost (cac):
    - name: Customer Acquisition Cost Dashboard
      type_name: Tableau
      description: >-
        Comprehensive dashboard showing customer acquisition costs across
        different marketing channels and time periods
      qualified_name: default/tableau/cac_dashboard
      guid: demo-asset-1
      certificate: VERIFIED
      connector: tableau
      owner_users: [marketing.team, data.analyst]
      owner_groups: [Marketing]
    - name: Marketing Spend Analysis
      type_name: Table
      description: Table containing marketing spend data used for CAC calculations
      qualified_name: default/snowflake/marketing_spend
      guid: demo-asset-2
      certificate: VERIFIED
      connector: snowflake
      owner_users: [data.engineer]
      owner_groups: [Data Engineering]
    - name: Customer Onboarding Process
      type_name: Process
      description: Process flow for new customer onboarding, including CAC tracking
      qualified_name: default/process/customer_onboarding
      guid: demo-asset-3
      certificate: DRAFT
      owner_users: [product.manager]
      owner_groups: [Product]
`

type demoDoc struct {
	Terms  []demoRecord            `yaml:"terms"`
	Assets map[string][]demoRecord `yaml:"assets"`
}

type demoRecord struct {
	Name          string   `yaml:"name"`
	DisplayName   string   `yaml:"display_name"`
	TypeName      string   `yaml:"type_name"`
	Description   string   `yaml:"description"`
	QualifiedName string   `yaml:"qualified_name"`
	GUID          string   `yaml:"guid"`
	Certificate   string   `yaml:"certificate"`
	Connector     string   `yaml:"connector"`
	OwnerUsers    []string `yaml:"owner_users"`
	OwnerGroups   []string `yaml:"owner_groups"`
}

// Demo is an in-memory catalog backed by embedded fixtures. It honors the
// same matching rules as the live client so conversation flows are
// identical offline.
type Demo struct {
	terms  []models.Entity
	assets map[string][]models.Entity
}

var _ Catalog = (*Demo)(nil)

// NewDemo parses the embedded fixtures. A parse failure is a programming
// error and aborts construction.
func NewDemo() (*Demo, error) {
	var doc demoDoc
	if err := yaml.Unmarshal([]byte(demoFixtures), &doc); err != nil {
		return nil, fmt.Errorf("parse demo fixtures: %w", err)
	}

	d := &Demo{assets: make(map[string][]models.Entity)}
	for _, t := range doc.Terms {
		d.terms = append(d.terms, t.entity("AtlasGlossaryTerm", nil))
	}
	for key, records := range doc.Assets {
		meanings := []string{canonicalDemoName(d.terms, key)}
		assets := make([]models.Entity, 0, len(records))
		for _, r := range records {
			assets = append(assets, r.entity("", meanings))
		}
		d.assets[strings.ToLower(key)] = assets
	}
	return d, nil
}

func (r demoRecord) entity(typeName string, meanings []string) models.Entity {
	if r.TypeName != "" {
		typeName = r.TypeName
	}
	owners := r.OwnerUsers
	if owners == nil {
		owners = []string{}
	}
	groups := r.OwnerGroups
	if groups == nil {
		groups = []string{}
	}
	if meanings == nil {
		meanings = []string{}
	}
	return models.Entity{
		Name:              r.Name,
		DisplayName:       r.DisplayName,
		Description:       strings.TrimSpace(r.Description),
		QualifiedName:     r.QualifiedName,
		GUID:              r.GUID,
		TypeName:          typeName,
		CertificateStatus: r.Certificate,
		ConnectorName:     r.Connector,
		OwnerUsers:        owners,
		OwnerGroups:       groups,
		MeaningNames:      meanings,
	}
}

// canonicalDemoName maps an assets key back to the full term name.
func canonicalDemoName(terms []models.Entity, key string) string {
	for _, t := range terms {
		if strings.EqualFold(t.Name, key) {
			return t.Name
		}
	}
	return key
}

// SearchTerms filters the fixture glossary by substring on name and
// display name. An empty name lists everything.
func (d *Demo) SearchTerms(_ context.Context, name string) ([]models.Entity, error) {
	if name == "" {
		return append([]models.Entity{}, d.terms...), nil
	}
	q := strings.ToLower(name)
	matches := []models.Entity{}
	for _, t := range d.terms {
		if strings.Contains(strings.ToLower(t.Name), q) || strings.Contains(strings.ToLower(t.DisplayName), q) {
			matches = append(matches, t)
		}
	}
	if len(matches) > termSearchSize {
		matches = matches[:termSearchSize]
	}
	return matches, nil
}

// FindLinkedAssets returns the fixture assets for the term, or a single
// sample asset so demo sessions always have something to show.
func (d *Demo) FindLinkedAssets(_ context.Context, termGUID, termName string) ([]models.Entity, error) {
	name := termName
	if termGUID != "" {
		for _, t := range d.terms {
			if t.GUID == termGUID {
				name = t.Name
				break
			}
		}
	}
	if name == "" {
		return []models.Entity{}, nil
	}

	key := strings.ToLower(name)
	if assets, ok := d.assets[key]; ok {
		return append([]models.Entity{}, assets...), nil
	}
	for k, assets := range d.assets {
		if strings.Contains(key, k) || strings.Contains(k, key) {
			return append([]models.Entity{}, assets...), nil
		}
	}

	sample := models.Entity{
		Name:              "Sample Asset for " + name,
		TypeName:          "Table",
		QualifiedName:     "default/sample/" + strings.ReplaceAll(strings.ToLower(name), " ", "_"),
		GUID:              "demo-asset-sample",
		Description:       "Example asset related to " + name,
		CertificateStatus: "DRAFT",
		OwnerUsers:        []string{"demo.user"},
		OwnerGroups:       []string{"Demo"},
		MeaningNames:      []string{name},
	}
	return []models.Entity{sample}, nil
}

// Ping always succeeds; the fixtures are local.
func (d *Demo) Ping(_ context.Context) error {
	return nil
}
