package workflow

import (
	"context"
	"strings"

	"luamaker/internal/depotset"
	"luamaker/internal/generator"
	"luamaker/internal/keystore"
	"luamaker/internal/logging"
	"luamaker/internal/manifests"
	"luamaker/internal/services"
)

// Inspect resolves and generates for appID without writing output. The
// manual fallback file, if used, is left in place.
func (m *Manager) Inspect(ctx context.Context, appID string) (*Inspection, error) {
	appID = strings.TrimSpace(appID)
	if err := generator.ValidateAppID(appID); err != nil {
		return nil, services.Wrap(services.ErrValidation, "inspect", "validate app id", "", err)
	}
	ctx = services.WithStage(services.WithAppID(ctx, appID), "inspect")
	logger := logging.WithContext(ctx, m.logger)

	layout, err := m.ResolveLayout(ctx)
	if err != nil {
		return nil, err
	}
	raw, source, err := m.fetchMetadata(ctx, logger, appID, false)
	if err != nil {
		return nil, err
	}
	desc, err := m.gen.Describe(appID, raw)
	if err != nil {
		return nil, classifyGeneratorError(err)
	}
	local, err := layout.ReadTrustStore()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "inspect", "read trust store", layout.TrustStorePath(), err)
	}

	insp := &Inspection{
		AppID:     appID,
		Name:      desc.Name,
		Source:    source,
		Layout:    layout,
		HasPlugin: layout.HasPlugin(appID),
	}
	if result, runErr := m.gen.Run(appID, raw, local); runErr != nil {
		insp.Err = classifyGeneratorError(runErr)
	} else {
		insp.Script = result.Script
	}

	store := keystore.New(local)
	for _, depot := range desc.Candidates {
		state := DepotState{Depot: depot}
		if names, err := manifests.List(layout.DepotCacheDir, depot.ID); err == nil {
			state.Manifests = len(names)
		}
		_, keyErr := store.Resolve(depot.ID)
		switch {
		case keyErr == nil:
			state.HasKey = true
			state.Kept = true
			state.Reason = "key found"
		case depot.IsAddOn:
			state.Reason = string(depotset.DropAddOn)
		case depot.IsLanguageRestricted:
			state.Reason = string(depotset.DropLanguageRestricted)
		default:
			state.Reason = "missing key"
		}
		insp.Depots = append(insp.Depots, state)
	}
	return insp, nil
}
