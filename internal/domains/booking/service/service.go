package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"leadtime/infras/otel"
	"leadtime/internal/domains/booking/model/dto"
	resDto "leadtime/internal/domains/reservation/model/dto"
	resService "leadtime/internal/domains/reservation/service"
	subDto "leadtime/internal/domains/submission/model/dto"
	subService "leadtime/internal/domains/submission/service"
	"leadtime/shared/constant"
	"leadtime/shared/hashing"
)

// Booking orchestrates one public booking attempt end to end: guard first,
// then the slot claim, with exactly one audit record written per attempt
// whatever the outcome.
type Booking interface {
	Submit(ctx context.Context, req dto.SubmitBookingRequest, clientIdentifier string) (resDto.CommitResponse, error)
}

type serviceImpl struct {
	guard        subService.Submission
	reservations resService.Reservation
	otel         otel.Otel
}

func New(guard subService.Submission, reservations resService.Reservation, otel otel.Otel) Booking {
	return &serviceImpl{
		guard:        guard,
		reservations: reservations,
		otel:         otel,
	}
}

func (s *serviceImpl) Submit(ctx context.Context, req dto.SubmitBookingRequest, clientIdentifier string) (res resDto.CommitResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Submit")
	defer scope.End()
	defer scope.TraceIfError(err)

	identifierHash := hashing.Identifier(clientIdentifier)

	decision, err := s.guard.Admit(ctx, subDto.AdmitRequest{
		FormType:       constant.FormTypeBooking,
		IdentifierHash: identifierHash,
		HoneypotValue:  req.Website,
		Payload:        req,
	})
	if err != nil {
		s.record(ctx, identifierHash, decision, nil)

		return res, err
	}

	res, err = s.reservations.Commit(ctx, req.ToCommitRequest())
	if err != nil {
		s.record(ctx, identifierHash, decision, nil)

		return res, err
	}

	s.record(ctx, identifierHash, decision, &res.ReservationID)

	return res, nil
}

// record appends the audit line off the request path. Record swallows its own
// failures, so the visitor's outcome is already settled by the time it runs.
func (s *serviceImpl) record(ctx context.Context, identifierHash string, decision subDto.Decision, recordRef *string) {
	go func() {
		c := context.WithoutCancel(ctx)

		s.guard.Record(c, subDto.RecordEntry{
			FormType:          constant.FormTypeBooking,
			IdentifierHash:    identifierHash,
			HoneypotTriggered: decision.HoneypotTriggered,
			Suspicious:        decision.Suspicious,
			RecordRef:         recordRef,
		})
	}()
}
