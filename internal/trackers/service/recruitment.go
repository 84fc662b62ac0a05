package service

import (
	"context"
	"strings"

	"store_opening_backend/internal/shared/calendar"
	"store_opening_backend/internal/trackers/domain"
	"store_opening_backend/internal/trackers/repository"
	"store_opening_backend/internal/trackers/transport"
	"store_opening_backend/platform/apperr"
	"store_opening_backend/platform/phone"
	"store_opening_backend/platform/sanitize"

	"github.com/google/uuid"
)

const recruitmentEntity = "staff_recruitment"

// CreateRecruitment opens a staff recruitment in RECRUITING.
func (s *Service) CreateRecruitment(ctx context.Context, req transport.CreateRecruitmentRequest) (transport.RecruitmentResponse, error) {
	if err := s.requireParent(ctx, req.PreparationProjectID); err != nil {
		return transport.RecruitmentResponse{}, err
	}
	if req.PositionsCount < 1 {
		return transport.RecruitmentResponse{}, apperr.BadRequest("positions count must be at least 1")
	}

	now := s.now().UTC()
	r := repository.Recruitment{
		ID:                   uuid.New(),
		PreparationProjectID: req.PreparationProjectID,
		Position:             sanitize.SingleLine(req.Position),
		PositionsCount:       req.PositionsCount,
		Deadline:             calendar.DateOnlyPtr(req.Deadline),
		Status:               domain.RecruitmentRecruiting,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.repo.CreateRecruitment(ctx, r); err != nil {
		return transport.RecruitmentResponse{}, err
	}

	s.log.Info("staff recruitment created", "id", r.ID, "preparationProjectId", r.PreparationProjectID)
	return s.GetRecruitment(ctx, r.ID)
}

// GetRecruitment retrieves a staff recruitment.
func (s *Service) GetRecruitment(ctx context.Context, id uuid.UUID) (transport.RecruitmentResponse, error) {
	r, err := s.repo.GetRecruitment(ctx, id)
	if err != nil {
		return transport.RecruitmentResponse{}, err
	}
	return toRecruitmentResponse(r), nil
}

// ListRecruitments lists staff recruitments.
func (s *Service) ListRecruitments(ctx context.Context, req transport.ListRequest) (transport.ListResponse[transport.RecruitmentResponse], error) {
	params, page, limit, err := listParams(req)
	if err != nil {
		return transport.ListResponse[transport.RecruitmentResponse]{}, err
	}
	items, total, err := s.repo.ListRecruitments(ctx, params)
	if err != nil {
		return transport.ListResponse[transport.RecruitmentResponse]{}, err
	}
	return listResponse(items, page, limit, total, toRecruitmentResponse), nil
}

// UpdateInterviewResult records an interview round and recomputes the
// application stats. The first interview moves RECRUITING to INTERVIEWING.
func (s *Service) UpdateInterviewResult(ctx context.Context, id uuid.UUID, req transport.InterviewResultRequest, actor Actor) (transport.RecruitmentResponse, error) {
	return s.moveRecruitment(ctx, id, func(current repository.Recruitment) (repository.RecruitmentUpdate, error) {
		if current.Status.IsTerminal() {
			return repository.RecruitmentUpdate{}, apperr.Forbidden("recruitment is " + current.Status.String() + " and no longer accepts interviews")
		}

		now := s.now().UTC()
		interviewedAt := now
		if req.InterviewedAt != nil {
			interviewedAt = req.InterviewedAt.UTC()
		}
		round := req.Round
		if round == 0 {
			round = 1
		}
		interviewer := sanitize.SingleLine(req.Interviewer)
		if strings.TrimSpace(interviewer) == "" {
			interviewer = actor.label()
		}
		interview := domain.Interview{
			CandidateName:  sanitize.SingleLine(req.CandidateName),
			CandidatePhone: phone.NormalizeE164(req.CandidatePhone),
			Position:       current.Position,
			Round:          round,
			Result:         req.Result,
			Interviewer:    interviewer,
			Comments:       sanitize.Text(req.Comments),
			InterviewedAt:  interviewedAt,
		}

		interviews := append(append([]domain.Interview(nil), current.Interviews...), interview)
		status, err := nextRecruitmentStatus(current, interviews, current.Offers, current.HiredCandidates)
		if err != nil {
			return repository.RecruitmentUpdate{}, err
		}

		return repository.RecruitmentUpdate{
			Status:           status,
			Progress:         current.Progress,
			ApplicationStats: domain.ComputeApplicationStats(interviews, current.Offers, current.HiredCandidates),
			AppendInterviews: []domain.Interview{interview},
		}, nil
	})
}

// RecordOffer records an offer made to a candidate. The status follows each
// candidate's latest offer, so a new pending offer never hides an accepted one.
func (s *Service) RecordOffer(ctx context.Context, id uuid.UUID, req transport.OfferRequest) (transport.RecruitmentResponse, error) {
	return s.moveRecruitment(ctx, id, func(current repository.Recruitment) (repository.RecruitmentUpdate, error) {
		if current.Status.IsTerminal() {
			return repository.RecruitmentUpdate{}, apperr.Forbidden("recruitment is " + current.Status.String() + " and no longer accepts offers")
		}
		now := s.now().UTC()
		offer := domain.Offer{
			CandidateName:  sanitize.SingleLine(req.CandidateName),
			CandidatePhone: phone.NormalizeE164(req.CandidatePhone),
			Position:       current.Position,
			Accepted:       req.Accepted,
			SentAt:         now,
		}
		if req.Salary != nil {
			offer.Salary = sanitize.SingleLine(*req.Salary)
		}
		if req.Accepted {
			offer.RespondedAt = &now
		}
		offers := append(append([]domain.Offer(nil), current.Offers...), offer)
		status, err := nextRecruitmentStatus(current, current.Interviews, offers, current.HiredCandidates)
		if err != nil {
			return repository.RecruitmentUpdate{}, err
		}

		return repository.RecruitmentUpdate{
			Status:           status,
			Progress:         current.Progress,
			ApplicationStats: domain.ComputeApplicationStats(current.Interviews, offers, current.HiredCandidates),
			AppendOffers:     []domain.Offer{offer},
		}, nil
	})
}

// ConfirmOnboard records candidates who joined after accepting an offer. The
// recruitment completes once every position is filled; until then it returns
// to whatever the remaining offers imply.
func (s *Service) ConfirmOnboard(ctx context.Context, id uuid.UUID, req transport.ConfirmOnboardRequest) (transport.RecruitmentResponse, error) {
	return s.moveRecruitment(ctx, id, func(current repository.Recruitment) (repository.RecruitmentUpdate, error) {
		if current.Status != domain.RecruitmentOfferAccepted {
			return repository.RecruitmentUpdate{}, apperr.BadRequest("candidates can only be onboarded after an offer is accepted")
		}

		now := s.now().UTC()
		hired := append([]domain.HiredCandidate(nil), current.HiredCandidates...)
		joined := make([]domain.HiredCandidate, 0, len(req.Candidates))
		for _, c := range req.Candidates {
			name := sanitize.SingleLine(c.CandidateName)
			candidatePhone := phone.NormalizeE164(c.CandidatePhone)
			if !domain.HasAcceptedOffer(current.Offers, name, candidatePhone) {
				return repository.RecruitmentUpdate{}, apperr.BadRequestf("%s has no accepted offer", name)
			}
			if domain.IsHired(hired, name, candidatePhone) {
				return repository.RecruitmentUpdate{}, apperr.BadRequestf("%s has already been onboarded", name)
			}

			startDate := calendar.DateOnly(now)
			if c.StartDate != nil {
				startDate = calendar.DateOnly(*c.StartDate)
			}
			candidate := domain.HiredCandidate{
				CandidateName:  name,
				CandidatePhone: candidatePhone,
				Position:       current.Position,
				StartDate:      startDate,
				OnboardedAt:    now,
			}
			joined = append(joined, candidate)
			hired = append(hired, candidate)
		}

		status, err := nextRecruitmentStatus(current, current.Interviews, current.Offers, hired)
		if err != nil {
			return repository.RecruitmentUpdate{}, err
		}

		return repository.RecruitmentUpdate{
			Status:           status,
			Progress:         domain.RecruitmentProgress(len(hired), current.PositionsCount),
			ApplicationStats: domain.ComputeApplicationStats(current.Interviews, current.Offers, hired),
			AppendHired:      joined,
		}, nil
	})
}

// CancelRecruitment closes an open recruitment without filling it.
func (s *Service) CancelRecruitment(ctx context.Context, id uuid.UUID, req transport.CancelRecruitmentRequest, actor Actor) (transport.RecruitmentResponse, error) {
	resp, err := s.moveRecruitment(ctx, id, func(current repository.Recruitment) (repository.RecruitmentUpdate, error) {
		if !domain.CanTransitionRecruitment(current.Status, domain.RecruitmentCancelled) {
			return repository.RecruitmentUpdate{}, apperr.BadRequestf("illegal recruitment transition from %s to %s", current.Status, domain.RecruitmentCancelled)
		}
		return repository.RecruitmentUpdate{
			Status:           domain.RecruitmentCancelled,
			Progress:         current.Progress,
			ApplicationStats: current.ApplicationStats,
		}, nil
	})
	if err != nil {
		return transport.RecruitmentResponse{}, err
	}
	s.log.Info("staff recruitment cancelled", "id", id, "by", actor.label(), "reason", sanitize.Text(req.Reason))
	return resp, nil
}

// nextRecruitmentStatus derives the status the history implies and checks
// the move against the recruitment's transitions.
func nextRecruitmentStatus(current repository.Recruitment, interviews []domain.Interview, offers []domain.Offer, hired []domain.HiredCandidate) (domain.RecruitmentStatus, error) {
	next := domain.RecruitmentStatusFor(interviews, offers, hired, current.PositionsCount)
	if !domain.CanTransitionRecruitment(current.Status, next) {
		return "", apperr.BadRequestf("illegal recruitment transition from %s to %s", current.Status, next)
	}
	return next, nil
}

func (s *Service) moveRecruitment(ctx context.Context, id uuid.UUID, plan func(repository.Recruitment) (repository.RecruitmentUpdate, error)) (transport.RecruitmentResponse, error) {
	var before, after repository.Recruitment
	err := s.repo.InTx(ctx, func(tx repository.Repository) error {
		current, err := tx.LockRecruitment(ctx, id)
		if err != nil {
			return err
		}
		before = current

		update, err := plan(current)
		if err != nil {
			return err
		}
		update.ID = id
		if err := tx.UpdateRecruitment(ctx, update); err != nil {
			return err
		}
		after, err = tx.GetRecruitment(ctx, id)
		return err
	})
	if err != nil {
		return transport.RecruitmentResponse{}, err
	}

	s.recordTransition(recruitmentEntity, id, before.Status.String(), after.Status.String())
	return toRecruitmentResponse(after), nil
}

func toRecruitmentResponse(r repository.Recruitment) transport.RecruitmentResponse {
	interviews := r.Interviews
	if interviews == nil {
		interviews = []domain.Interview{}
	}
	offers := r.Offers
	if offers == nil {
		offers = []domain.Offer{}
	}
	hired := r.HiredCandidates
	if hired == nil {
		hired = []domain.HiredCandidate{}
	}
	return transport.RecruitmentResponse{
		ID:                   r.ID,
		PreparationProjectID: r.PreparationProjectID,
		Position:             r.Position,
		PositionsCount:       r.PositionsCount,
		Deadline:             r.Deadline,
		Status:               r.Status,
		Progress:             r.Progress,
		Interviews:           interviews,
		Offers:               offers,
		HiredCandidates:      hired,
		ApplicationStats:     r.ApplicationStats,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}
