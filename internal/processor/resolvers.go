package processor

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/Theodlz/skyportal/internal/models"
)

// resolveFollowupRequest notifies follow-up subscribers of a new or deleted
// request. Per user, eligibility additionally requires read access to the
// request's allocation. A deleted request keeps its own allocation id even
// when the trigger carried a different one.
func (p *Processor) resolveFollowupRequest(ctx context.Context, event models.TriggerEvent) ([]models.DeliveryTarget, error) {
	users, err := p.users.ListResourceSubscribers(ctx, models.ResourceFollowupRequests)
	if err != nil {
		return nil, errors.Wrap(err, "list followup subscribers")
	}
	if len(users) == 0 {
		return nil, nil
	}

	request, err := p.followups.GetRequest(ctx, event.TargetID)
	if err != nil && !missing(err) {
		return nil, errors.Wrap(err, "get followup request")
	}

	deleted := (request == nil && event.AllocationID != 0 && event.ObjID != "") ||
		(request != nil && request.Status == "deleted")
	if request == nil && !deleted {
		return nil, nil
	}

	objID := event.ObjID
	if objID == "" && request != nil {
		objID = request.ObjID
	}

	var targets []models.DeliveryTarget
	for _, user := range users {
		var text, url string
		allocationID := event.AllocationID
		if deleted {
			if request != nil {
				allocationID = request.AllocationID
			}
			url = "/followup_requests"
		} else {
			url = fmt.Sprintf("/followup_requests/%d", event.TargetID)
		}

		allocation, err := p.followups.AllocationReadableBy(ctx, user.ID, allocationID)
		if err != nil {
			return nil, errors.Wrap(err, "check allocation access")
		}
		if allocation == nil {
			continue
		}

		if deleted {
			text = fmt.Sprintf("A follow-up request for %s with allocation %d was deleted", objID, allocation.ID)
		} else {
			text = fmt.Sprintf("New follow-up request for %s with allocation %d", objID, allocation.ID)
		}

		target, err := p.notify(ctx, user, text, models.TypeFollowupRequests, url, nil)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, nil
}

func (p *Processor) resolveObservationPlan(ctx context.Context, event models.TriggerEvent) ([]models.DeliveryTarget, error) {
	users, err := p.users.ListResourceSubscribers(ctx, models.ResourceObservationPlans)
	if err != nil {
		return nil, errors.Wrap(err, "list observation plan subscribers")
	}
	if len(users) == 0 {
		return nil, nil
	}

	plan, err := p.events.GetPlan(ctx, event.TargetID)
	if missing(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get observation plan")
	}

	text := fmt.Sprintf("New observation plan for alert event %s", formatDateObs(plan.DateObs))
	url := "/alert_events/" + formatDateObsURL(plan.DateObs)

	var targets []models.DeliveryTarget
	for _, user := range users {
		target, err := p.notify(ctx, user, text, models.TypeObservationPlans, url, nil)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, nil
}

func (p *Processor) resolveComment(ctx context.Context, event models.TriggerEvent) ([]models.DeliveryTarget, error) {
	comment, err := p.sources.GetComment(ctx, event.TargetID)
	if missing(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get comment")
	}

	users, err := p.users.ListFavoriteSubscribers(ctx, comment.ObjID, "new_comments", comment.Bot)
	if err != nil {
		return nil, errors.Wrap(err, "list favorite comment subscribers")
	}

	text := fmt.Sprintf("New comment on favorite source %s", comment.ObjID)
	url := "/source/" + comment.ObjID

	var targets []models.DeliveryTarget
	for _, user := range users {
		target, err := p.notify(ctx, user, text, models.TypeFavoriteSources, url, nil)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, nil
}

func (p *Processor) resolveClassification(ctx context.Context, event models.TriggerEvent) ([]models.DeliveryTarget, error) {
	classification, err := p.sources.GetClassification(ctx, event.TargetID)
	if missing(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get classification")
	}

	users, err := p.users.ListFavoriteSubscribers(ctx, classification.ObjID, "new_classifications", false)
	if err != nil {
		return nil, errors.Wrap(err, "list favorite classification subscribers")
	}

	text := fmt.Sprintf("New classification on favorite source %s", classification.ObjID)
	url := "/source/" + classification.ObjID

	var targets []models.DeliveryTarget
	for _, user := range users {
		target, err := p.notify(ctx, user, text, models.TypeFavoriteSources, url, nil)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, nil
}

// resolveSpectrum notifies two disjoint sets: favorites subscribers first,
// then generic source subscribers excluding the favorites set.
func (p *Processor) resolveSpectrum(ctx context.Context, event models.TriggerEvent) ([]models.DeliveryTarget, error) {
	spectrum, err := p.sources.GetSpectrum(ctx, event.TargetID)
	if missing(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get spectrum")
	}
	url := "/source/" + spectrum.ObjID

	favorites, err := p.users.ListFavoriteSubscribers(ctx, spectrum.ObjID, "new_spectra", false)
	if err != nil {
		return nil, errors.Wrap(err, "list favorite spectrum subscribers")
	}

	var targets []models.DeliveryTarget
	favoriteIDs := make([]int64, 0, len(favorites))
	for _, user := range favorites {
		favoriteIDs = append(favoriteIDs, user.ID)
		text := fmt.Sprintf("New spectrum on favorite source %s", spectrum.ObjID)
		target, err := p.notify(ctx, user, text, models.TypeFavoriteSources, url, nil)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}

	others, err := p.users.ListSourceSpectrumSubscribers(ctx, favoriteIDs)
	if err != nil {
		return nil, errors.Wrap(err, "list source spectrum subscribers")
	}
	for _, user := range others {
		text := fmt.Sprintf("New spectrum on source %s", spectrum.ObjID)
		target, err := p.notify(ctx, user, text, models.TypeSources, url, nil)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, nil
}

// resolveGroupAdmissionRequest notifies the admins of the target group;
// group admission notifications bypass ordinary preference checks.
func (p *Processor) resolveGroupAdmissionRequest(ctx context.Context, event models.TriggerEvent) ([]models.DeliveryTarget, error) {
	request, err := p.groups.GetAdmissionRequest(ctx, event.TargetID)
	if missing(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get group admission request")
	}

	admins, err := p.users.ListGroupAdmins(ctx, request.GroupID)
	if err != nil {
		return nil, errors.Wrap(err, "list group admins")
	}

	text := fmt.Sprintf("User %s requested to join group %s", request.Username, request.GroupName)
	url := fmt.Sprintf("/group/%d", request.GroupID)

	var targets []models.DeliveryTarget
	for _, user := range admins {
		target, err := p.notify(ctx, user, text, models.TypeGroupAdmissionRequests, url, nil)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, nil
}
