package main

import (
	"log"

	"coachpay-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedNotificationTypes populates the registry that maps ledger event
// codes to notification templates.
func SeedNotificationTypes(db *gorm.DB) {
	types := []model.NotificationType{
		{
			Code:        "PAYMENT_CAPTURED",
			DisplayName: "Payment Successful",
			Template:    "Your session payment of {amount_cents} cents was captured.",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			Channels:    datatypes.JSON([]byte(`["web"]`)),
			IsActive:    true,
		},
		{
			Code:        "PAYMENT_FAILED",
			DisplayName: "Payment Failed",
			Template:    "Your session payment could not be completed. Reason: {reason}",
			TargetType:  "SELF",
			Priority:    "HIGH",
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
			IsActive:    true,
		},
		{
			Code:        "REFUND_REQUESTED",
			DisplayName: "Refund Requested",
			Template:    "Refund requested on payment {payment_id}. Reason: {reason}",
			TargetType:  "ADMIN",
			Priority:    "HIGH",
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
			IsActive:    true,
		},
		{
			Code:        "REFUND_COMPLETED",
			DisplayName: "Refund Completed",
			Template:    "Your refund of {amount_cents} cents has been processed via {refund_method}.",
			TargetType:  "SELF",
			Priority:    "HIGH",
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
			IsActive:    true,
		},
		{
			Code:        "REFUND_REJECTED",
			DisplayName: "Refund Rejected",
			Template:    "Your refund request was rejected. Reason: {rejection_reason}",
			TargetType:  "SELF",
			Priority:    "HIGH",
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
			IsActive:    true,
		},
		{
			Code:        "REFUND_CANCELLED",
			DisplayName: "Refund Cancelled",
			Template:    "Refund request {refund_request_id} was withdrawn by the requester.",
			TargetType:  "ADMIN",
			Priority:    "LOW",
			Channels:    datatypes.JSON([]byte(`["web"]`)),
			IsActive:    true,
		},
		{
			Code:        "PAYOUT_CREATED",
			DisplayName: "Payout Created",
			Template:    "A payout of {net_amount_cents} cents covering {payment_count} sessions is on its way.",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			Channels:    datatypes.JSON([]byte(`["web"]`)),
			IsActive:    true,
		},
		{
			Code:        "PAYOUT_PROCESSED",
			DisplayName: "Payout Processed",
			Template:    "Your payout of {net_amount_cents} cents has been transferred.",
			TargetType:  "SELF",
			Priority:    "HIGH",
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
			IsActive:    true,
		},
		{
			Code:        "PAYOUT_FAILED",
			DisplayName: "Payout Failed",
			Template:    "Payout {payout_id} failed: {reason}",
			TargetType:  "ADMIN",
			Priority:    "HIGH",
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
			IsActive:    true,
		},
		{
			Code:        "CREDIT_APPLIED",
			DisplayName: "Store Credit Added",
			Template:    "{amount_cents} cents of store credit was added. New balance: {new_balance_cents} cents.",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			Channels:    datatypes.JSON([]byte(`["web"]`)),
			IsActive:    true,
		},
	}

	for _, t := range types {
		if err := db.Where("code = ?", t.Code).FirstOrCreate(&t).Error; err != nil {
			log.Printf("Error seeding notification type %s: %v", t.Code, err)
		}
	}
	log.Println("✅ Notification types seeded successfully.")
}
