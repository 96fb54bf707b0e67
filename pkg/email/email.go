package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"
)

type EmailService struct {
	apiKey    string
	from      string
	templates *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

// Template data structures
type SubscriptionEmailData struct {
	CompanyName string
	PlanName    string
	Price       float64
	Currency    string
	ExpiresAt   time.Time
	IsRenewal   bool
}

type SubscriptionCancelledData struct {
	CompanyName string
	PlanName    string
}

type SubscriptionExpiryWarningData struct {
	CompanyName string
	PlanName    string
	DaysLeft    int
	ExpiryDate  time.Time
}

type BookingConfirmationData struct {
	CustomerName string
	CompanyName  string
	RoomName     string
	CheckInDate  string
	CheckOutDate string
	FinalTotal   string
	DueAmount    string
}

func NewEmailService(apiKey string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      "FloatBook <noreply@floatbook.app>",
		templates: templates,
	}, nil
}

func (s *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	emailData := EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("Resend API error: Status: %d, Body: %s", resp.StatusCode, string(respBody))
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	return nil
}

func (s *EmailService) SendSubscriptionStartedEmail(
	email string,
	companyName string,
	planName string,
	price float64,
	currency string,
	expiresAt time.Time,
	isRenewal bool,
) error {
	data := SubscriptionEmailData{
		CompanyName: companyName,
		PlanName:    planName,
		Price:       price,
		Currency:    currency,
		ExpiresAt:   expiresAt,
		IsRenewal:   isRenewal,
	}

	subject := "Your FloatBook Plan Is Active! 🎉"
	if isRenewal {
		subject = "Your FloatBook Subscription Has Been Renewed 🔄"
	}

	return s.sendTemplateEmail(email, subject, "subscription_started.html", data)
}

func (s *EmailService) SendSubscriptionCancelledEmail(email, companyName, planName string) error {
	data := SubscriptionCancelledData{
		CompanyName: companyName,
		PlanName:    planName,
	}
	return s.sendTemplateEmail(email, "Your Subscription Has Been Cancelled", "subscription_cancelled.html", data)
}

func (s *EmailService) SendSubscriptionExpiryWarning(
	email, companyName, planName string,
	expiryDate time.Time,
	daysLeft int,
) error {
	data := SubscriptionExpiryWarningData{
		CompanyName: companyName,
		PlanName:    planName,
		DaysLeft:    daysLeft,
		ExpiryDate:  expiryDate,
	}
	return s.sendTemplateEmail(
		email,
		fmt.Sprintf("Your Subscription Expires in %d Days ⚠️", daysLeft),
		"subscription_expiry_warning.html",
		data,
	)
}

func (s *EmailService) SendBookingConfirmationEmail(
	email, customerName, companyName, roomName, checkInDate, checkOutDate, finalTotal, dueAmount string,
) error {
	data := BookingConfirmationData{
		CustomerName: customerName,
		CompanyName:  companyName,
		RoomName:     roomName,
		CheckInDate:  checkInDate,
		CheckOutDate: checkOutDate,
		FinalTotal:   finalTotal,
		DueAmount:    dueAmount,
	}
	return s.sendTemplateEmail(email, fmt.Sprintf("Booking Confirmed — %s", companyName), "booking_confirmation.html", data)
}
