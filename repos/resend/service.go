package resend

import (
	"context"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	resend "github.com/resend/resend-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const inviteCollection = "invites"

// Service sends signup invite mail and tracks which addresses have been
// invited. Only invited addresses may sign up.
type Service struct {
	firestoreClient *firestore.Client
	resendClient    *resend.Client
	hostURL         string
}

// NewService creates a new invite mail service.
func NewService(firestoreClient *firestore.Client, hostURL string) *Service {
	resendKey := os.Getenv("RESEND_KEY")
	return &Service{
		firestoreClient: firestoreClient,
		resendClient:    resend.NewClient(resendKey),
		hostURL:         hostURL,
	}
}

// SendInvite mails the signup link for the given invite code.
func (s *Service) SendInvite(ctx context.Context, email, code string) error {
	body := getInviteTemplate(fmt.Sprintf("%s/signup/%s", s.hostURL, code))
	params := &resend.SendEmailRequest{
		From:    "Camels <noreply@camels-app.dev>",
		To:      []string{email},
		Subject: "Welcome to Camels!",
		Html:    body,
	}

	_, err := s.resendClient.Emails.Send(params)
	if err != nil {
		log.Printf("Failed to send invite mail: %v", err)
		return err
	}
	return nil
}

// MarkInvited records the address so signup can verify it later.
func (s *Service) MarkInvited(ctx context.Context, email string) error {
	_, err := s.firestoreClient.Collection(inviteCollection).Doc(email).Set(ctx, map[string]interface{}{
		"email": email,
	})
	if err != nil {
		log.Printf("Failed to record invite for %s: %v", email, err)
		return err
	}
	return nil
}

// IsInvited reports whether the address has an outstanding invite.
func (s *Service) IsInvited(ctx context.Context, email string) (bool, error) {
	doc, err := s.firestoreClient.Collection(inviteCollection).Doc(email).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, err
	}
	return doc.Exists(), nil
}

func getInviteTemplate(url string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <style>
        body {
            font-family: Arial, sans-serif;
            background-color: #f4f4f4;
            margin: 0;
            padding: 20px;
        }
        .container {
            background-color: #ffffff;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            box-shadow: 0 0 10px rgba(0,0,0,0.1);
        }
        .button {
            display: block;
            width: 200px;
            height: 50px;
            margin: 20px auto;
            background-color: #007BFF;
            color: #ffffff;
            font-size: 16px;
            text-align: center;
            line-height: 50px;
            text-decoration: none;
            border-radius: 5px;
        }
    </style>
</head>
<body>
    <div class="container">
        <h2>Hello,</h2>
        <p>Please click on the link below to sign up for Camels 2020.</p>
        <a href="%s" class="button">Sign up</a>
        <p>Best regards,<br>The Camels</p>
    </div>
</body>
</html>`, url)
}
