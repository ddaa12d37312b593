package config

import (
	"bizbook/cmd/internal/domain/entity"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TierPolicy bundles every per-plan limit. Row caps of zero mean "no cap".
type TierPolicy struct {
	MyAppointmentsLimit int `yaml:"my_appointments_limit"`
	UpcomingLimit       int `yaml:"upcoming_limit"`
	PastLimit           int `yaml:"past_limit"`
	DefaultLimit        int `yaml:"default_limit"`

	SharedEnabled   bool `yaml:"shared_enabled"`
	AssignedEnabled bool `yaml:"assigned_enabled"`
	TeamEnabled     bool `yaml:"team_enabled"`
	InviteEnabled   bool `yaml:"invite_enabled"`

	// MonthlyAppointmentQuota caps appointment creation per calendar month.
	MonthlyAppointmentQuota int `yaml:"monthly_appointment_quota"`
}

type TierPolicies map[entity.Tier]TierPolicy

func DefaultTierPolicies() TierPolicies {
	return TierPolicies{
		entity.TierFree: {
			MyAppointmentsLimit:     5,
			UpcomingLimit:           3,
			PastLimit:               3,
			DefaultLimit:            5,
			MonthlyAppointmentQuota: 10,
		},
		entity.TierIndividual: {
			SharedEnabled:   true,
			AssignedEnabled: true,
			InviteEnabled:   true,
		},
		entity.TierBusiness: {
			SharedEnabled:   true,
			AssignedEnabled: true,
			TeamEnabled:     true,
			InviteEnabled:   true,
		},
	}
}

// For returns the policy of a tier. Unknown tiers get the free policy.
func (p TierPolicies) For(tier entity.Tier) TierPolicy {
	if policy, ok := p[tier]; ok {
		return policy
	}
	return p[entity.TierFree]
}

// LoadTierPolicies overlays the tiers found in the YAML file at path on top
// of the defaults field by field: keys the file leaves out keep their default.
// An empty path returns the defaults.
func LoadTierPolicies(path string) (TierPolicies, error) {
	policies := DefaultTierPolicies()
	if path == "" {
		return policies, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var overrides map[entity.Tier]yaml.Node
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse tier policies %s: %w", path, err)
	}

	for tier, node := range overrides {
		switch tier {
		case entity.TierFree, entity.TierIndividual, entity.TierBusiness:
			policy := policies[tier]
			if err := node.Decode(&policy); err != nil {
				return nil, fmt.Errorf("parse tier policies %s: %s: %w", path, tier, err)
			}
			policies[tier] = policy
		default:
			return nil, errors.New("unknown tier in policy file: " + string(tier))
		}
	}
	return policies, nil
}
