package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"contactsapi/internal/data"
	"contactsapi/internal/validator"

	"github.com/julienschmidt/httprouter"
)

// creating an envelope type
type envelope map[string]any

func (a *app) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {

	// indented output for readability
	jsResponse, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}

	jsResponse = append(jsResponse, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, err = w.Write(jsResponse)
	if err != nil {
		return err
	}

	return nil
}

func (a *app) readJSON(w http.ResponseWriter, r *http.Request, dest any) error {

	// limit the size of the request body to 256000 bytes
	maxBytes := 256_000
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dest)

	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("the body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("the body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("the body contains the incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("the body contains the incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("the body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("the body must not be larger than %d bytes", maxBytesError.Limit)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	// call decode again to check if there is only a single json value in the body
	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("the body must only contain a single JSON value")
	}

	return nil
}

// Helper function to read an id parameter from the url
func (a *app) readIDParam(r *http.Request) (int64, error) {
	params := httprouter.ParamsFromContext(r.Context())

	id, err := strconv.ParseInt(params.ByName("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id parameter")
	}

	return id, nil
}

// Helper function to read a named string parameter from the url
func (a *app) readStringParam(r *http.Request, name string) string {
	params := httprouter.ParamsFromContext(r.Context())
	return params.ByName(name)
}

// get single string query parameter
func (a *app) getSingleQueryParameter(queryParameters url.Values, key string, defaultValue string) string {
	result := queryParameters.Get(key)
	if result == "" {
		return defaultValue
	}
	return result
}

// this method can cause a validation error if the parameter is not an integer
func (a *app) getSingleIntQueryParameter(queryParameters url.Values, key string, defaultValue int64, v *validator.Validator) int64 {
	result := queryParameters.Get(key)
	if result == "" {
		return defaultValue
	}

	intResult, err := strconv.ParseInt(result, 10, 64)
	if err != nil {
		v.AddError(key, "must be an integer value")
		return defaultValue
	}
	return intResult
}

// readFilters reads the common pagination and sorting query parameters.
func (a *app) readFilters(queryParameters url.Values, defaultSort string, defaultPageSize int64, safelist []string, v *validator.Validator) data.Filter {
	filter := data.Filter{
		Page:         a.getSingleIntQueryParameter(queryParameters, "page", 1, v),
		PageSize:     a.getSingleIntQueryParameter(queryParameters, "page_size", defaultPageSize, v),
		SortBy:       a.getSingleQueryParameter(queryParameters, "sort", defaultSort),
		SortSafeList: safelist,
	}

	data.ValidateFilters(v, filter)

	return filter
}

// background launches a function in a goroutine tracked by the server's
// WaitGroup, recovering any panic so a failed email can't kill the process.
func (a *app) background(fn func()) {
	a.wg.Add(1)

	go func() {
		defer a.wg.Done()

		defer func() {
			if err := recover(); err != nil {
				a.logger.Error("background task panicked", "error", fmt.Sprintf("%s", err))
			}
		}()

		fn()
	}()
}
