package service

import (
	"context"
	"testing"

	"store_opening_backend/internal/trackers/domain"
	"store_opening_backend/internal/trackers/transport"
	"store_opening_backend/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRecruitment(t *testing.T, svc *Service, repo *fakeRepo, positions int) transport.RecruitmentResponse {
	t.Helper()
	created, err := svc.CreateRecruitment(context.Background(), transport.CreateRecruitmentRequest{
		PreparationProjectID: repo.addProject(),
		Position:             "Cashier",
		PositionsCount:       positions,
	})
	require.NoError(t, err)
	return created
}

func TestCreateRecruitmentRejectsZeroPositions(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo)

	_, err := svc.CreateRecruitment(context.Background(), transport.CreateRecruitmentRequest{
		PreparationProjectID: repo.addProject(),
		Position:             "Cashier",
	})

	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	assert.Empty(t, repo.recruitments)
}

func TestInterviewResultUpdatesStats(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo)
	created := createRecruitment(t, svc, repo, 2)
	ctx := context.Background()

	first, err := svc.UpdateInterviewResult(ctx, created.ID, transport.InterviewResultRequest{
		CandidateName:  "Zhang Wei",
		CandidatePhone: "138 0013 8000",
		Result:         domain.InterviewPassed,
	}, testActor)
	require.NoError(t, err)

	assert.Equal(t, domain.RecruitmentInterviewing, first.Status)
	require.Len(t, first.Interviews, 1)
	assert.Equal(t, "+8613800138000", first.Interviews[0].CandidatePhone)
	assert.Equal(t, 1, first.Interviews[0].Round)
	assert.Equal(t, "Cashier", first.Interviews[0].Position)
	assert.Equal(t, "Li Na", first.Interviews[0].Interviewer)

	second, err := svc.UpdateInterviewResult(ctx, created.ID, transport.InterviewResultRequest{
		CandidateName: "Chen Jie",
		Result:        domain.InterviewFailed,
		Interviewer:   "Store manager",
	}, testActor)
	require.NoError(t, err)

	assert.Equal(t, domain.RecruitmentInterviewing, second.Status)
	assert.Equal(t, domain.ApplicationStats{Interviewed: 2, Passed: 1, Failed: 1}, second.ApplicationStats)
}

func TestOfferAndOnboardFlow(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo)
	created := createRecruitment(t, svc, repo, 2)
	ctx := context.Background()

	_, err := svc.ConfirmOnboard(ctx, created.ID, transport.ConfirmOnboardRequest{
		Candidates: []transport.OnboardCandidate{{CandidateName: "Zhang Wei"}},
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	sent, err := svc.RecordOffer(ctx, created.ID, transport.OfferRequest{CandidateName: "Zhang Wei"})
	require.NoError(t, err)
	assert.Equal(t, domain.RecruitmentOfferSent, sent.Status)

	accepted, err := svc.RecordOffer(ctx, created.ID, transport.OfferRequest{CandidateName: "Zhang Wei", Accepted: true})
	require.NoError(t, err)
	assert.Equal(t, domain.RecruitmentOfferAccepted, accepted.Status)
	assert.Equal(t, 2, accepted.ApplicationStats.OffersSent)
	assert.Equal(t, 1, accepted.ApplicationStats.OffersAccepted)

	partial, err := svc.ConfirmOnboard(ctx, created.ID, transport.ConfirmOnboardRequest{
		Candidates: []transport.OnboardCandidate{{CandidateName: "Zhang Wei"}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RecruitmentInterviewing, partial.Status)
	assert.Equal(t, 50, partial.Progress)
	assert.Equal(t, 1, partial.ApplicationStats.Hired)

	_, err = svc.RecordOffer(ctx, created.ID, transport.OfferRequest{CandidateName: "Liu Yang", Accepted: true})
	require.NoError(t, err)
	done, err := svc.ConfirmOnboard(ctx, created.ID, transport.ConfirmOnboardRequest{
		Candidates: []transport.OnboardCandidate{{CandidateName: "Liu Yang"}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RecruitmentCompleted, done.Status)
	assert.Equal(t, 100, done.Progress)
	assert.Len(t, done.HiredCandidates, 2)

	_, err = svc.UpdateInterviewResult(ctx, created.ID, transport.InterviewResultRequest{
		CandidateName: "Late applicant",
		Result:        domain.InterviewPending,
	}, testActor)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestPendingOfferKeepsAcceptedCandidateOnboardable(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo)
	created := createRecruitment(t, svc, repo, 2)
	ctx := context.Background()

	accepted, err := svc.RecordOffer(ctx, created.ID, transport.OfferRequest{CandidateName: "Zhang Wei", Accepted: true})
	require.NoError(t, err)
	assert.Equal(t, domain.RecruitmentOfferAccepted, accepted.Status)

	pending, err := svc.RecordOffer(ctx, created.ID, transport.OfferRequest{CandidateName: "Liu Yang"})
	require.NoError(t, err)
	assert.Equal(t, domain.RecruitmentOfferAccepted, pending.Status)

	joined, err := svc.ConfirmOnboard(ctx, created.ID, transport.ConfirmOnboardRequest{
		Candidates: []transport.OnboardCandidate{{CandidateName: "Zhang Wei"}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RecruitmentOfferSent, joined.Status)
	assert.Equal(t, 50, joined.Progress)

	_, err = svc.ConfirmOnboard(ctx, created.ID, transport.ConfirmOnboardRequest{
		Candidates: []transport.OnboardCandidate{{CandidateName: "Liu Yang"}},
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	_, err = svc.RecordOffer(ctx, created.ID, transport.OfferRequest{CandidateName: "Liu Yang", Accepted: true})
	require.NoError(t, err)
	done, err := svc.ConfirmOnboard(ctx, created.ID, transport.ConfirmOnboardRequest{
		Candidates: []transport.OnboardCandidate{{CandidateName: "Liu Yang"}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RecruitmentCompleted, done.Status)
}

func TestConfirmOnboardRejectsCandidateWithoutAcceptedOffer(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo)
	created := createRecruitment(t, svc, repo, 3)
	ctx := context.Background()

	_, err := svc.RecordOffer(ctx, created.ID, transport.OfferRequest{CandidateName: "Zhang Wei", Accepted: true})
	require.NoError(t, err)

	_, err = svc.ConfirmOnboard(ctx, created.ID, transport.ConfirmOnboardRequest{
		Candidates: []transport.OnboardCandidate{{CandidateName: "Zhang Wei"}, {CandidateName: "Walk-in"}},
	})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	assert.Empty(t, repo.recruitments[created.ID].HiredCandidates)

	_, err = svc.ConfirmOnboard(ctx, created.ID, transport.ConfirmOnboardRequest{
		Candidates: []transport.OnboardCandidate{{CandidateName: "Zhang Wei"}, {CandidateName: "zhang wei"}},
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}

func TestCancelRecruitment(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo)
	created := createRecruitment(t, svc, repo, 2)
	ctx := context.Background()

	cancelled, err := svc.CancelRecruitment(ctx, created.ID, transport.CancelRecruitmentRequest{Reason: "Store relocated"}, testActor)
	require.NoError(t, err)
	assert.Equal(t, domain.RecruitmentCancelled, cancelled.Status)

	_, err = svc.RecordOffer(ctx, created.ID, transport.OfferRequest{CandidateName: "Zhang Wei"})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = svc.CancelRecruitment(ctx, created.ID, transport.CancelRecruitmentRequest{}, testActor)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}
