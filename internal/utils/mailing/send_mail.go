package mailing

import (
	"fmt"
	"strconv"

	"forkd/internal/utils"

	"gopkg.in/gomail.v2"
)

func SendMail(toEmail string, subject string, body string) error {
	port, err := strconv.Atoi(utils.GetConfig("SMTP_PORT"))
	if err != nil {
		return err
	}

	mailer := gomail.NewMessage()
	mailer.SetHeader("From", utils.GetConfig("SMTP_AUTH_EMAIL"))
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)

	dialer := gomail.NewDialer(
		utils.GetConfig("SMTP_HOST"),
		port,
		utils.GetConfig("SMTP_AUTH_EMAIL"),
		utils.GetConfig("SMTP_AUTH_PASSWORD"),
	)

	return dialer.DialAndSend(mailer)
}

// SendShareNotification tells a grantee that a recipe was shared with them.
func SendShareNotification(toEmail string, ownerUsername string, recipeID string) error {
	subject := fmt.Sprintf("%s shared a recipe with you", ownerUsername)
	body := fmt.Sprintf(
		"<p>%s shared a recipe with you on Forkd.</p>"+
			"<p><a href=\"%s/recipes/%s\">Open the recipe</a></p>",
		ownerUsername,
		utils.GetConfig("APP_URL"),
		recipeID,
	)
	return SendMail(toEmail, subject, body)
}
