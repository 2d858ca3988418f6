package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/Ramsey-B/aster/internal/platform/tracing"
	"github.com/Ramsey-B/aster/pkg/models"
)

// seedTeam is one entry of the curated teams asset.
type seedTeam struct {
	Name            string              `json:"team"`
	ShortName       string              `json:"short_name"`
	Conference      string              `json:"conference"`
	City            string              `json:"city"`
	State           string              `json:"state"`
	CityState       string              `json:"city_state"`
	URL             string              `json:"url"`
	StatsURL        string              `json:"stats_url"`
	Tier            string              `json:"tier"`
	Aliases         []string            `json:"team_name_aliases"`
	Niche           *models.NicheRating `json:"niche"`
	Notes           string              `json:"notes"`
	ScorecardUnitID *int64              `json:"scorecard_unitid"`
	LogoFilename    string              `json:"logo_filename"`
}

// seedTeams upserts the curated team list. A missing asset is not an error;
// deployments that manage teams directly skip this stage.
func (p *Pipeline) seedTeams(ctx context.Context) error {
	ctx, span := tracing.StartSpan(ctx, "pipeline.seedTeams")
	defer span.End()

	if p.cfg.TeamsJSONPath == "" {
		return nil
	}
	data, err := os.ReadFile(p.cfg.TeamsJSONPath)
	if err != nil {
		if os.IsNotExist(err) {
			p.logger.WithContext(ctx).WithFields(map[string]any{"path": p.cfg.TeamsJSONPath}).Info("No teams asset, skipping seed stage")
			return nil
		}
		return errors.Wrap(err, "failed to read teams asset")
	}

	var seeds []seedTeam
	if err := json.Unmarshal(data, &seeds); err != nil {
		return errors.Wrap(err, "failed to parse teams asset")
	}

	conferenceIDs := make(map[string]int64)
	count := 0
	for _, seed := range seeds {
		if seed.Name == "" {
			continue
		}

		team := models.Team{Name: seed.Name}
		setIfPresent(&team.ShortName, seed.ShortName)
		setIfPresent(&team.URL, seed.URL)
		setIfPresent(&team.StatsURL, seed.StatsURL)
		setIfPresent(&team.Tier, seed.Tier)
		setIfPresent(&team.Notes, seed.Notes)
		setIfPresent(&team.LogoFilename, seed.LogoFilename)
		team.ScorecardUnitID = seed.ScorecardUnitID

		city, state := seed.City, seed.State
		if (city == "" || state == "") && strings.Contains(seed.CityState, ",") {
			parts := strings.SplitN(seed.CityState, ",", 2)
			city = strings.TrimSpace(parts[0])
			state = strings.TrimSpace(parts[1])
		}
		setIfPresent(&team.City, city)
		setIfPresent(&team.State, state)

		if seed.Conference != "" {
			id, ok := conferenceIDs[seed.Conference]
			if !ok {
				id, err = p.conferences.Upsert(ctx, &models.Conference{Name: seed.Conference})
				if err != nil {
					return errors.Wrapf(err, "failed to upsert conference %s", seed.Conference)
				}
				conferenceIDs[seed.Conference] = id
			}
			team.ConferenceID = &id
		}

		if len(seed.Aliases) > 0 {
			aliases, err := json.Marshal(seed.Aliases)
			if err != nil {
				return errors.Wrapf(err, "failed to encode aliases for %s", seed.Name)
			}
			team.AliasesJSON = aliases
		}
		if seed.Niche != nil {
			team.SetNiche(*seed.Niche)
		}

		if err := validate.Struct(team); err != nil {
			p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"team": seed.Name}).Warn("Dropping invalid team seed")
			continue
		}

		if _, err := p.teams.Upsert(ctx, &team); err != nil {
			return errors.Wrapf(err, "failed to upsert team %s", seed.Name)
		}
		count++
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{"teams": count}).Info("Seeded teams")
	return nil
}

func setIfPresent(dst **string, value string) {
	if value == "" {
		return
	}
	v := value
	*dst = &v
}
