package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trafficops/traffic-ops-api/api"
	"github.com/trafficops/traffic-ops-api/config"
	"github.com/trafficops/traffic-ops-api/databases"
)

// Payment drives fine collection through Stripe Checkout
type Payment struct {
	DB      databases.ViolationDatabase
	BaseURL string
}

// CreateCheckoutHandler creates a Stripe Checkout session for an unpaid
// violation and returns the hosted payment URL
func (p Payment) CreateCheckoutHandler(w http.ResponseWriter, r *http.Request) {
	if stripe.Key == "" {
		config.ErrorStatus("payments not configured", http.StatusInternalServerError, w, fmt.Errorf("stripe secret key is not set"))
		return
	}

	violationID := mux.Vars(r)["violation_id"]
	vID, err := primitive.ObjectIDFromHex(violationID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	violation, err := p.DB.FindOne(context.Background(), bson.M{"_id": vID})
	if err != nil {
		config.ErrorStatus("failed to get violation", http.StatusNotFound, w, err)
		return
	}
	if violation.Status == "Paid" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "violation is already paid"}`))
		return
	}

	reference := uuid.New().String()
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("inr"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Traffic fine %s (%s)", violation.VehicleNumber, violation.ViolationType)),
					},
					// stripe wants the amount in the smallest currency unit
					UnitAmount: stripe.Int64(int64(violation.FineAmount * 100)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(fmt.Sprintf("%s/api/v1/payments/confirm?violation_id=%s&reference=%s", p.BaseURL, violationID, reference)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/violations", p.BaseURL)),
	}
	params.AddMetadata("violation_id", violationID)
	params.AddMetadata("reference", reference)

	s, err := session.New(params)
	if err != nil {
		config.ErrorStatus("failed to create checkout session", http.StatusInternalServerError, w, err)
		return
	}

	// the confirm endpoint only accepts a reference issued here
	err = p.DB.UpdateOne(context.Background(), bson.M{"_id": vID}, bson.M{"$set": bson.M{"payment_reference": reference}})
	if err != nil {
		config.ErrorStatus("failed to record payment reference", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"checkout_url": s.URL,
		"reference":    reference,
	})
}

// ConfirmPaymentHandler marks a violation paid once the payer lands on the
// success redirect. The reference must match the one stored on the violation
// when its checkout session was created.
func (p Payment) ConfirmPaymentHandler(w http.ResponseWriter, r *http.Request) {
	violationID := r.URL.Query().Get("violation_id")
	reference := r.URL.Query().Get("reference")
	if violationID == "" || reference == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "violation_id and reference are required"}`))
		return
	}

	vID, err := primitive.ObjectIDFromHex(violationID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	violation, err := p.DB.FindOne(context.Background(), bson.M{"_id": vID})
	if err != nil {
		config.ErrorStatus("failed to get violation", http.StatusNotFound, w, err)
		return
	}
	if violation.PaymentReference == "" || violation.PaymentReference != reference {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid payment reference"}`))
		return
	}

	update := bson.M{
		"status":            "Paid",
		"payment_reference": reference,
		"updated_at":        nowUTC(),
	}
	if sess, ok := api.SessionFromContext(r.Context()); ok {
		update["updated_by"] = sess.Username
	}

	err = p.DB.UpdateOne(context.Background(), bson.M{"_id": vID}, bson.M{"$set": update})
	if err != nil {
		config.ErrorStatus("failed to record payment", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Payment recorded successfully",
	})
}
