package integration

import (
	"net/http"
	"strings"
	"testing"
)

type valentineBody struct {
	Valentine struct {
		ID                string `json:"id"`
		UserID            string `json:"user_id"`
		RecipientTelegram string `json:"recipient_telegram"`
		Message           string `json:"message"`
		File              string `json:"file"`
		FileURL           string `json:"file_url"`
		Answer            *int   `json:"answer"`
	} `json:"valentine"`
	Notification struct {
		Delivered bool `json:"delivered"`
		Error     *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"notification"`
	CanAnswer *bool `json:"can_answer"`
}

type valentinePage struct {
	Data []struct {
		ID                string `json:"id"`
		RecipientTelegram string `json:"recipient_telegram"`
	} `json:"data"`
	TotalItems int64 `json:"total_items"`
}

func TestSendValentineFlow(t *testing.T) {
	ts := newTestServer(t)

	senderToken := ts.registerAndLogin(t, "romeo@test.com", "romeo_tg", 2001)
	recipientToken := ts.registerAndLogin(t, "juliet@test.com", "juliet_tg", 2002)
	ts.bot.registerChat("juliet_tg", 2002)

	sentBefore := len(ts.bot.messages())

	w := ts.multipartRequest(t, senderToken, "Будь моей валентинкой!", "@juliet_tg", "heart.png", []byte("png bytes"))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var body valentineBody
	decodeBody(t, w, &body)
	if !strings.HasPrefix(body.Valentine.File, "heart.png-") {
		t.Errorf("expected file key derived from the upload name, got %s", body.Valentine.File)
	}
	if body.Valentine.FileURL == "" {
		t.Error("expected a public file URL")
	}
	if !body.Notification.Delivered {
		t.Errorf("expected notification to be delivered: %s", w.Body.String())
	}

	// Recipient notification plus sender confirmation.
	messages := ts.bot.messages()
	if len(messages) != sentBefore+2 {
		t.Fatalf("expected 2 delivery messages, got %d", len(messages)-sentBefore)
	}
	if messages[sentBefore].chatID != 2002 {
		t.Errorf("expected recipient notification to chat 2002, got %d", messages[sentBefore].chatID)
	}
	if !strings.Contains(messages[sentBefore].text, "@romeo_tg") {
		t.Error("expected recipient notification to name the sender")
	}
	if !strings.Contains(messages[sentBefore].text, body.Valentine.ID) {
		t.Error("expected recipient notification to link the valentine")
	}
	if messages[sentBefore+1].chatID != 2001 {
		t.Errorf("expected sender confirmation to chat 2001, got %d", messages[sentBefore+1].chatID)
	}

	// Sender sees it in the sent list.
	w = ts.request(t, http.MethodGet, "/api/v1/valentines/sent", senderToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var sent valentinePage
	decodeBody(t, w, &sent)
	if sent.TotalItems != 1 {
		t.Errorf("expected 1 sent valentine, got %d", sent.TotalItems)
	}

	// Recipient sees it in the received list, matched on the linked handle.
	w = ts.request(t, http.MethodGet, "/api/v1/valentines/received", recipientToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var received valentinePage
	decodeBody(t, w, &received)
	if received.TotalItems != 1 {
		t.Errorf("expected 1 received valentine, got %d", received.TotalItems)
	}
	if len(received.Data) == 1 && received.Data[0].RecipientTelegram != "@juliet_tg" {
		t.Errorf("expected recipient @juliet_tg, got %s", received.Data[0].RecipientTelegram)
	}

	// The sender has received nothing.
	w = ts.request(t, http.MethodGet, "/api/v1/valentines/received", senderToken, nil)
	var senderReceived valentinePage
	decodeBody(t, w, &senderReceived)
	if senderReceived.TotalItems != 0 {
		t.Errorf("expected no received valentines for the sender, got %d", senderReceived.TotalItems)
	}
}

func TestSendValentineWithoutFile(t *testing.T) {
	ts := newTestServer(t)

	token := ts.registerAndLogin(t, "nofile@test.com", "nofile_tg", 2003)
	ts.bot.registerChat("nofile_target", 2004)

	w := ts.multipartRequest(t, token, "Без картинки", "@nofile_target", "", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var body valentineBody
	decodeBody(t, w, &body)
	if body.Valentine.File != "default.gif" {
		t.Errorf("expected placeholder file key, got %s", body.Valentine.File)
	}
}

func TestSendValentineUnreachableRecipient(t *testing.T) {
	ts := newTestServer(t)

	token := ts.registerAndLogin(t, "lonely@test.com", "lonely_tg", 2005)

	// @stranger never messaged the bot. The valentine persists anyway.
	w := ts.multipartRequest(t, token, "Привет", "@stranger_tg", "", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var body valentineBody
	decodeBody(t, w, &body)
	if body.Notification.Delivered {
		t.Error("expected delivery to fail for an unreachable recipient")
	}
	if body.Notification.Error == nil || body.Notification.Error.Code != "RECIPIENT_UNREACHABLE" {
		t.Errorf("expected RECIPIENT_UNREACHABLE, got %+v", body.Notification.Error)
	}

	w = ts.request(t, http.MethodGet, "/api/v1/valentines/sent", token, nil)
	var sent valentinePage
	decodeBody(t, w, &sent)
	if sent.TotalItems != 1 {
		t.Errorf("expected the valentine to be persisted, got %d", sent.TotalItems)
	}
}

func TestSendValentineRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	w := ts.multipartRequest(t, "", "Аноним", "@nobody_tg", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestSendValentineInvalidRecipient(t *testing.T) {
	ts := newTestServer(t)

	token := ts.registerAndLogin(t, "picky@test.com", "picky_tg", 2006)

	w := ts.multipartRequest(t, token, "hi", "@x", "", nil)
	assertErrorCode(t, w, http.StatusBadRequest, "INVALID_INPUT")
}

func TestValentineDetailAndAnswer(t *testing.T) {
	ts := newTestServer(t)

	senderToken := ts.registerAndLogin(t, "asker@test.com", "asker_tg", 2007)
	recipientToken := ts.registerAndLogin(t, "crush@test.com", "crush_tg", 2008)
	ts.bot.registerChat("crush_tg", 2008)

	w := ts.multipartRequest(t, senderToken, "Ответь мне", "@crush_tg", "", nil)
	var created valentineBody
	decodeBody(t, w, &created)
	id := created.Valentine.ID

	// Anonymous viewers can open the detail page and may answer.
	w = ts.request(t, http.MethodGet, "/api/v1/valentines/"+id, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var anon valentineBody
	decodeBody(t, w, &anon)
	if anon.CanAnswer == nil || !*anon.CanAnswer {
		t.Error("expected can_answer=true for an anonymous viewer")
	}

	// The sender viewing their own valentine gets no answer affordance.
	w = ts.request(t, http.MethodGet, "/api/v1/valentines/"+id, senderToken, nil)
	var asSender valentineBody
	decodeBody(t, w, &asSender)
	if asSender.CanAnswer == nil || *asSender.CanAnswer {
		t.Error("expected can_answer=false for the sender")
	}

	// The sender cannot answer their own valentine.
	w = ts.request(t, http.MethodPost, "/api/v1/valentines/"+id+"/answer", senderToken, nil)
	assertErrorCode(t, w, http.StatusForbidden, "OWN_VALENTINE")

	// The recipient answers; the sender is notified.
	before := len(ts.bot.messages())
	w = ts.request(t, http.MethodPost, "/api/v1/valentines/"+id+"/answer", recipientToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var answered valentineBody
	decodeBody(t, w, &answered)
	if answered.Valentine.Answer == nil || *answered.Valentine.Answer != 1 {
		t.Errorf("expected answer 1, got %v", answered.Valentine.Answer)
	}
	if !answered.Notification.Delivered {
		t.Errorf("expected answer notification to be delivered: %s", w.Body.String())
	}

	messages := ts.bot.messages()
	if len(messages) != before+1 {
		t.Fatalf("expected 1 answer notification, got %d", len(messages)-before)
	}
	last := messages[len(messages)-1]
	if last.chatID != 2007 {
		t.Errorf("expected answer notification to the sender's chat 2007, got %d", last.chatID)
	}
	if last.text != "Вам ответили на валентинку:\nДа" {
		t.Errorf("unexpected answer notification text: %q", last.text)
	}

	// The recorded answer is visible on the detail page.
	w = ts.request(t, http.MethodGet, "/api/v1/valentines/"+id, "", nil)
	var after valentineBody
	decodeBody(t, w, &after)
	if after.Valentine.Answer == nil || *after.Valentine.Answer != 1 {
		t.Error("expected persisted answer on the detail page")
	}
}

func TestValentineDetailNotFound(t *testing.T) {
	ts := newTestServer(t)

	w := ts.request(t, http.MethodGet, "/api/v1/valentines/33333333-3333-7333-8333-333333333333", "", nil)
	assertErrorCode(t, w, http.StatusNotFound, "VALENTINE_NOT_FOUND")

	w = ts.request(t, http.MethodGet, "/api/v1/valentines/not-a-uuid", "", nil)
	assertErrorCode(t, w, http.StatusBadRequest, "INVALID_INPUT")
}
