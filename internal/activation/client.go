package activation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrNotRunning 没有找到正在运行的实例
var ErrNotRunning = errors.New("no running instance")

// ReadAddrFile 读取运行实例写下的地址
func ReadAddrFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotRunning
		}
		return "", err
	}
	addr := strings.TrimSpace(string(data))
	if addr == "" {
		return "", ErrNotRunning
	}
	return addr, nil
}

// Forward 把激活 URI 发给 addr 上的实例，返回是否找到对应通知
func Forward(ctx context.Context, addr, uri string) (bool, error) {
	body, err := json.Marshal(activateRequest{URI: uri})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://"+addr+"/v1/activations", bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrNotRunning, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var out activateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("activation rejected (%d): %s", resp.StatusCode, out.Error)
	}
	return out.Delivered, nil
}
