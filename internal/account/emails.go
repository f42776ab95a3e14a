package account

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/playperu/scrumcluedo/internal/mail"
)

var (
	welcomeHTML = template.Must(template.New("welcome").Parse(
		`<p>Ciao <b>{{.Name}}</b>,</p>` +
			`<p>La tua squadra è stata registrata con successo su Scrum Cluedo!</p>` +
			`<p>Hai effettuato l'accesso con l'indirizzo email: <b>{{.Email}}</b></p><br>` +
			`<p><i>Per motivi di sicurezza, non includiamo la tua password in questa email.</i><br>` +
			`Se dovessi dimenticarla, potrai sempre utilizzare la funzione "Hai dimenticato la password?" nella pagina di login.</p><br>` +
			`<p>Preparati a investigare sui peggiori anti-pattern Scrum!</p>`))

	resetHTML = template.Must(template.New("reset").Parse(
		`<p>Ciao <b>{{.Name}}</b>,</p>` +
			`<p>Hai richiesto il ripristino della password.</p>` +
			`<p><a href="{{.URL}}">Clicca qui per scegliere una nuova password</a></p>` +
			`<p>Il link scadrà tra un'ora. Se non hai richiesto il reset, ignora questa email.</p>`))

	changedHTML = template.Must(template.New("changed").Parse(
		`<p>Ciao <b>{{.Name}}</b>,</p>` +
			`<p>Ti confermiamo che la password del tuo account è stata appena modificata con successo.</p>` +
			`<p>Se non sei stato tu, contatta l'amministratore.</p>` +
			`<p>Buona indagine!</p>`))
)

func render(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}

func welcomeEmail(name, email string) mail.Message {
	return mail.Message{
		To:      email,
		Subject: "Benvenuto in Scrum Cluedo!",
		Text: fmt.Sprintf("Ciao %s,\n\n"+
			"La tua squadra è stata registrata con successo su Scrum Cluedo!\n\n"+
			"Hai effettuato l'accesso con l'indirizzo email: %s\n\n"+
			"Per motivi di sicurezza, non includiamo la tua password in questa email.\n"+
			"Se dovessi dimenticarla, potrai sempre utilizzare la funzione \"Hai dimenticato la password?\" nella pagina di login.\n\n"+
			"Preparati a investigare sui peggiori anti-pattern Scrum!", name, email),
		HTML: render(welcomeHTML, map[string]string{"Name": name, "Email": email}),
	}
}

func resetEmail(name, email, url string) mail.Message {
	return mail.Message{
		To:      email,
		Subject: "Recupero Password - Scrum Cluedo",
		Text: fmt.Sprintf("Ciao %s,\n\n"+
			"Hai richiesto il ripristino della password.\n"+
			"Clicca il link seguente per scegliere una nuova password:\n\n%s\n\n"+
			"Il link scadrà tra un'ora. Se non hai richiesto il reset, ignora questa email.", name, url),
		HTML: render(resetHTML, map[string]string{"Name": name, "URL": url}),
	}
}

func passwordChangedEmail(name, email string) mail.Message {
	return mail.Message{
		To:      email,
		Subject: "Password Modificata con Successo - Scrum Cluedo",
		Text: fmt.Sprintf("Ciao %s,\n\n"+
			"Ti confermiamo che la password del tuo account è stata appena modificata con successo.\n\n"+
			"Se non sei stato tu, contatta l'amministratore.\n\n"+
			"Buona indagine!", name),
		HTML: render(changedHTML, map[string]string{"Name": name}),
	}
}
