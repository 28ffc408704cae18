package main

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

const defaultChecksumAlgo = "sha256"

func verifyChecksumOfFile(logger *logrus.Entry, filePath string, checksums []string, algorithm string) *taskError {
	computedChecksum, err := computeChecksum(filePath, algorithm)
	if err != nil {
		return newError(errorWhileComputingChecksum, err.Error())
	}

	expected := map[string]bool{}
	for _, checksum := range checksums {
		expected[strings.ToLower(strings.TrimSpace(checksum))] = true
	}
	if !expected[computedChecksum] {
		keys := make([]string, 0, len(expected))
		for key := range expected {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		return newError(checksumDoesNotMatch, fmt.Sprintf("Expected the checksum value to be one of %s, but instead got %s for the file at %s. This means that either you are using the wrong checksum value (e.g. did you update the ref but not the checksum?) or that someone has replaced the file with a potentially dangerous one and you should be very careful about proceeding.", strings.Join(keys, ", "), computedChecksum, filePath))
	}

	logger.Infof("File checksum verified for %s", filePath)
	return nil
}

func computeChecksum(filePath string, algorithm string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher, err := getHasher(algorithm)
	if err != nil {
		return "", err
	}

	_, err = io.Copy(hasher, file)
	if err != nil {
		return "", err
	}

	return hasherToString(hasher), nil
}

// Return a hasher instance, the common interface used by all Golang hashing functions
func getHasher(algorithm string) (hash.Hash, error) {
	switch algorithm {
	case "sha256":
		return sha256.New(), nil
	case "sha512":
		return sha512.New(), nil
	default:
		return nil, fmt.Errorf("The checksum algorithm \"%s\" is not supported", algorithm)
	}
}

// Convert a hasher instance to the string value of that hasher
func hasherToString(hasher hash.Hash) string {
	return hex.EncodeToString(hasher.Sum(nil))
}
