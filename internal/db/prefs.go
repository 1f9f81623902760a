package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetPref returns the stored value, or "" when the key is absent.
func GetPref(namespace, key string) (string, error) {
	c, err := conn()
	if err != nil {
		return "", err
	}
	var val string
	err = c.QueryRow(`SELECT value FROM prefs WHERE namespace = ? AND key = ?`, namespace, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get pref %s/%s: %w", namespace, key, err)
	}
	return val, nil
}

func SetPref(namespace, key, value string) error {
	c, err := conn()
	if err != nil {
		return err
	}
	_, err = c.Exec(`
		INSERT INTO prefs (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		namespace, key, value, time.Now().Unix())
	return err
}

// SetPrefs writes all values of a namespace in one transaction.
func SetPrefs(namespace string, values map[string]string) error {
	c, err := conn()
	if err != nil {
		return err
	}
	tx, err := c.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for k, v := range values {
		if _, err := tx.Exec(`
			INSERT INTO prefs (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
			ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			namespace, k, v, now); err != nil {
			return fmt.Errorf("set pref %s/%s: %w", namespace, k, err)
		}
	}
	return tx.Commit()
}

// GetPrefs returns every key of a namespace. An empty namespace yields an empty map.
func GetPrefs(namespace string) (map[string]string, error) {
	c, err := conn()
	if err != nil {
		return nil, err
	}
	rows, err := c.Query(`SELECT key, value FROM prefs WHERE namespace = ?`, namespace)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

func DeletePref(namespace, key string) error {
	c, err := conn()
	if err != nil {
		return err
	}
	_, err = c.Exec(`DELETE FROM prefs WHERE namespace = ? AND key = ?`, namespace, key)
	return err
}
