package routes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go-recruiter/internal/recruitment/dto"
	"go-recruiter/internal/recruitment/models"
	"go-recruiter/internal/recruitment/services"
	"go-recruiter/pkg/evegateway"

	"github.com/danielgtaylor/huma/v2"
)

// Aggregator is the data source behind the character endpoints
type Aggregator interface {
	Profile(ctx context.Context, characterID int32) (*models.CharacterProfile, error)
	Skills(ctx context.Context, characterID int32) (*models.SkillSet, error)
	SkillQueue(ctx context.Context, characterID int32) ([]models.SkillQueueEntry, error)
	Mail(ctx context.Context, characterID int32) ([]models.MailMessage, error)
	Assets(ctx context.Context, characterID int32) (*models.AssetSummary, error)
	Contracts(ctx context.Context, characterID int32) ([]models.Contract, error)
	MarketOrders(ctx context.Context, characterID int32) ([]models.MarketOrder, error)
	Wallet(ctx context.Context, characterID int32) (*models.WalletSummary, error)
	Notifications(ctx context.Context, characterID int32) ([]models.Notification, error)
	Contacts(ctx context.Context, characterID int32) ([]models.Contact, error)
	Clones(ctx context.Context, characterID int32) (*models.CloneInfo, error)
	CorporationHistory(ctx context.Context, characterID int32) ([]models.CorporationHistoryEntry, error)
	NewEvaluator(ctx context.Context, characterID int32) (*services.Evaluator, error)
}

// StatusFunc reports the module health
type StatusFunc func(ctx context.Context) *dto.RecruitmentStatusResponse

// RegisterRecruitmentRoutes registers the character aggregation routes on a shared Huma API
func RegisterRecruitmentRoutes(api huma.API, basePath string, agg Aggregator, status StatusFunc) {
	// Status endpoint (public, no auth required)
	huma.Register(api, huma.Operation{
		OperationID: "recruitment-get-status",
		Method:      http.MethodGet,
		Path:        basePath + "/status",
		Summary:     "Get recruitment module status",
		Description: "Returns the health status of the recruitment module",
		Tags:        []string{"Module Status"},
	}, func(ctx context.Context, input *struct{}) (*dto.StatusOutput, error) {
		return &dto.StatusOutput{Body: *status(ctx)}, nil
	})

	huma.Register(api, characterOperation(basePath, "overview", "Get character overview",
		"Identity, affiliations, current location and ship of a character."),
		func(ctx context.Context, input *dto.CharacterInput) (*dto.ProfileOutput, error) {
			p, err := agg.Profile(ctx, int32(input.CharacterID))
			if err != nil {
				return nil, toHumaError(err)
			}
			return &dto.ProfileOutput{Body: *p}, nil
		})

	huma.Register(api, characterOperation(basePath, "skills", "Get character skills",
		"Trained skills grouped by skill group. Requires esi-skills.read_skills.v1."),
		func(ctx context.Context, input *dto.CharacterInput) (*dto.SkillsOutput, error) {
			s, err := agg.Skills(ctx, int32(input.CharacterID))
			if err != nil {
				return nil, toHumaError(err)
			}
			return &dto.SkillsOutput{Body: *s}, nil
		})

	huma.Register(api, characterOperation(basePath, "skillqueue", "Get character skill queue",
		"Queued skills in training order. Requires esi-skills.read_skillqueue.v1."),
		func(ctx context.Context, input *dto.CharacterInput) (*dto.SkillQueueOutput, error) {
			q, err := agg.SkillQueue(ctx, int32(input.CharacterID))
			if err != nil {
				return nil, toHumaError(err)
			}
			return &dto.SkillQueueOutput{Body: q}, nil
		})

	huma.Register(api, characterOperation(basePath, "mail", "Get character mail",
		"Mail headers with bodies and resolved recipients, newest first. Requires esi-mail.read_mail.v1."),
		func(ctx context.Context, input *dto.CharacterInput) (*dto.MailOutput, error) {
			m, err := agg.Mail(ctx, int32(input.CharacterID))
			if err != nil {
				return nil, toHumaError(err)
			}
			return &dto.MailOutput{Body: m}, nil
		})

	huma.Register(api, characterOperation(basePath, "assets", "Get character assets",
		"Assets grouped by location with estimated values. Requires esi-assets.read_assets.v1."),
		func(ctx context.Context, input *dto.CharacterInput) (*dto.AssetsOutput, error) {
			a, err := agg.Assets(ctx, int32(input.CharacterID))
			if err != nil {
				return nil, toHumaError(err)
			}
			return &dto.AssetsOutput{Body: *a}, nil
		})

	huma.Register(api, characterOperation(basePath, "contracts", "Get character contracts",
		"Contracts with parties, locations and included items. Requires esi-contracts.read_character_contracts.v1."),
		func(ctx context.Context, input *dto.CharacterInput) (*dto.ContractsOutput, error) {
			c, err := agg.Contracts(ctx, int32(input.CharacterID))
			if err != nil {
				return nil, toHumaError(err)
			}
			return &dto.ContractsOutput{Body: c}, nil
		})

	huma.Register(api, characterOperation(basePath, "market", "Get character market orders",
		"Open market orders. Requires esi-markets.read_character_orders.v1."),
		func(ctx context.Context, input *dto.CharacterInput) (*dto.MarketOrdersOutput, error) {
			o, err := agg.MarketOrders(ctx, int32(input.CharacterID))
			if err != nil {
				return nil, toHumaError(err)
			}
			return &dto.MarketOrdersOutput{Body: o}, nil
		})

	huma.Register(api, characterOperation(basePath, "wallet", "Get character wallet",
		"Balance, journal and transactions. Requires esi-wallet.read_character_wallet.v1."),
		func(ctx context.Context, input *dto.CharacterInput) (*dto.WalletOutput, error) {
			w, err := agg.Wallet(ctx, int32(input.CharacterID))
			if err != nil {
				return nil, toHumaError(err)
			}
			return &dto.WalletOutput{Body: *w}, nil
		})

	huma.Register(api, characterOperation(basePath, "notifications", "Get character notifications",
		"Recent notifications with resolved senders. Requires esi-characters.read_notifications.v1."),
		func(ctx context.Context, input *dto.CharacterInput) (*dto.NotificationsOutput, error) {
			n, err := agg.Notifications(ctx, int32(input.CharacterID))
			if err != nil {
				return nil, toHumaError(err)
			}
			return &dto.NotificationsOutput{Body: n}, nil
		})

	huma.Register(api, characterOperation(basePath, "contacts", "Get character contacts",
		"Contacts with standings and resolved names. Requires esi-characters.read_contacts.v1."),
		func(ctx context.Context, input *dto.CharacterInput) (*dto.ContactsOutput, error) {
			c, err := agg.Contacts(ctx, int32(input.CharacterID))
			if err != nil {
				return nil, toHumaError(err)
			}
			return &dto.ContactsOutput{Body: c}, nil
		})

	huma.Register(api, characterOperation(basePath, "clones", "Get character clones",
		"Home station, jump clones and active implants. Requires esi-clones.read_clones.v1 and esi-clones.read_implants.v1."),
		func(ctx context.Context, input *dto.CharacterInput) (*dto.ClonesOutput, error) {
			c, err := agg.Clones(ctx, int32(input.CharacterID))
			if err != nil {
				return nil, toHumaError(err)
			}
			return &dto.ClonesOutput{Body: *c}, nil
		})

	huma.Register(api, characterOperation(basePath, "corporation-history", "Get character corporation history",
		"Corporations the character has been a member of, newest first."),
		func(ctx context.Context, input *dto.CharacterInput) (*dto.CorporationHistoryOutput, error) {
			h, err := agg.CorporationHistory(ctx, int32(input.CharacterID))
			if err != nil {
				return nil, toHumaError(err)
			}
			return &dto.CorporationHistoryOutput{Body: h}, nil
		})

	huma.Register(api, huma.Operation{
		OperationID: "recruitment-check-skill-plan",
		Method:      http.MethodPost,
		Path:        basePath + "/{character_id}/skillplan-check",
		Summary:     "Check a skill plan",
		Description: "Reports which skills of a plan the character has not trained to the required level.",
		Tags:        []string{"Recruitment / Evaluation"},
	}, func(ctx context.Context, input *dto.SkillPlanCheckInput) (*dto.SkillPlanCheckOutput, error) {
		plan, err := services.ParseSkillPlan(input.Body.Plan)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		ev, err := agg.NewEvaluator(ctx, int32(input.CharacterID))
		if err != nil {
			return nil, toHumaError(err)
		}
		return &dto.SkillPlanCheckOutput{Body: *ev.CheckPlan(plan)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "recruitment-check-fit",
		Method:      http.MethodPost,
		Path:        basePath + "/{character_id}/fit-check",
		Summary:     "Check a fitting",
		Description: "Reports whether the character can use every item of a fitting.",
		Tags:        []string{"Recruitment / Evaluation"},
	}, func(ctx context.Context, input *dto.FitCheckInput) (*dto.FitCheckOutput, error) {
		fitting := strings.TrimSpace(input.Body.Fitting)
		if fitting == "" && len(input.Body.TypeIDs) == 0 {
			return nil, huma.Error422UnprocessableEntity("either fitting or type_ids is required")
		}
		ev, err := agg.NewEvaluator(ctx, int32(input.CharacterID))
		if err != nil {
			return nil, toHumaError(err)
		}
		var res *models.FitCheckResult
		if fitting != "" {
			res, err = ev.CheckFitting(ctx, fitting)
		} else {
			res, err = ev.CheckFit(ctx, input.Body.TypeIDs)
		}
		if err != nil {
			return nil, toHumaError(err)
		}
		return &dto.FitCheckOutput{Body: *res}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "recruitment-check-item",
		Method:      http.MethodGet,
		Path:        basePath + "/{character_id}/can-use/{type_id}",
		Summary:     "Check a single item",
		Description: "Reports whether the character meets the skill requirements of an item type.",
		Tags:        []string{"Recruitment / Evaluation"},
	}, func(ctx context.Context, input *dto.ItemCheckInput) (*dto.ItemCheckOutput, error) {
		ev, err := agg.NewEvaluator(ctx, int32(input.CharacterID))
		if err != nil {
			return nil, toHumaError(err)
		}
		ok, err := ev.CanUseItem(ctx, input.TypeID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &dto.ItemCheckOutput{Body: dto.ItemCheckResult{TypeID: input.TypeID, CanUse: ok}}, nil
	})
}

func characterOperation(basePath, name, summary, description string) huma.Operation {
	return huma.Operation{
		OperationID: "recruitment-get-" + name,
		Method:      http.MethodGet,
		Path:        basePath + "/{character_id}/" + name,
		Summary:     summary,
		Description: description,
		Tags:        []string{"Recruitment / Character"},
	}
}

// toHumaError maps aggregator failures onto HTTP problems.
func toHumaError(err error) error {
	if se, ok := evegateway.AsScopeError(err); ok {
		return huma.Error403Forbidden(fmt.Sprintf("Character %d has not granted %s", se.CharacterID, se.Scope), err)
	}
	var fe *services.FetchError
	if errors.As(err, &fe) {
		if errors.Is(err, evegateway.ErrNotFound) {
			return huma.Error404NotFound(fmt.Sprintf("No %s found", fe.Domain), err)
		}
		return huma.Error502BadGateway(fmt.Sprintf("Failed to load %s from ESI", fe.Domain), err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return huma.Error504GatewayTimeout("ESI did not answer in time", err)
	}
	return huma.Error500InternalServerError("Unexpected error", err)
}
