package mqtt

import (
	"errors"
	"testing"
)

func TestHandleRequest(t *testing.T) {
	raw := []byte(`{"correlationId":"abc","payload":{"chatId":-100123}}`)

	var got map[string]interface{}
	topic, resp, err := handleRequest("guard/request/settings", raw, func(p map[string]interface{}) (interface{}, error) {
		got = p
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("handleRequest() error = %v", err)
	}

	if topic != "guard/response/settings/abc" {
		t.Errorf("response topic = %v, want %v", topic, "guard/response/settings/abc")
	}
	if resp.CorrelationID != "abc" || resp.Data != "ok" || resp.Error != "" {
		t.Errorf("response = %+v", resp)
	}
	if got["_topic"] != "settings" {
		t.Errorf("_topic = %v, want settings", got["_topic"])
	}
	if got["chatId"] != float64(-100123) {
		t.Errorf("chatId = %v, want -100123", got["chatId"])
	}
}

func TestHandleRequestError(t *testing.T) {
	raw := []byte(`{"correlationId":"x"}`)

	_, resp, err := handleRequest("guard/request/warnings", raw, func(map[string]interface{}) (interface{}, error) {
		return nil, errors.New("chat desconocido")
	})
	if err != nil {
		t.Fatalf("handleRequest() error = %v", err)
	}
	if resp.Error != "chat desconocido" || resp.Data != nil {
		t.Errorf("response = %+v", resp)
	}
}

func TestHandleRequestBadJSON(t *testing.T) {
	_, _, err := handleRequest("guard/request/x", []byte("{"), func(map[string]interface{}) (interface{}, error) {
		t.Fatal("callback must not run")
		return nil, nil
	})
	if err == nil {
		t.Error("handleRequest() should fail on malformed JSON")
	}
}

func TestAuditTopic(t *testing.T) {
	if got := AuditTopic(-100123); got != "guard/audit/-100123" {
		t.Errorf("AuditTopic() = %v, want %v", got, "guard/audit/-100123")
	}
}

func TestNilCommunicatorIsDisconnected(t *testing.T) {
	var mc *MqttCommunicator
	if mc.IsConnected() {
		t.Error("nil communicator should report disconnected")
	}
}
