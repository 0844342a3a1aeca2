package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/monty/internal/services"
	"github.com/desertthunder/monty/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the server
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path, err := requestPath(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.client(cmd.String("url")).Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writeResponse(resp, cmd.Bool("json"))
}

// APIPost makes a direct POST request to the server
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path, data, err := requestBody(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("POST request", "path", path)

	resp, err := r.client(cmd.String("url")).Post(ctx, path, data)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writeResponse(resp, cmd.Bool("json"))
}

// APIPut makes a direct PUT request to the server
func (r *Runner) APIPut(ctx context.Context, cmd *cli.Command) error {
	path, data, err := requestBody(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("PUT request", "path", path)

	resp, err := r.client(cmd.String("url")).Put(ctx, path, data)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writeResponse(resp, cmd.Bool("json"))
}

// APIDelete makes a direct DELETE request to the server
func (r *Runner) APIDelete(ctx context.Context, cmd *cli.Command) error {
	path, err := requestPath(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("DELETE request", "path", path)

	resp, err := r.client(cmd.String("url")).Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writeResponse(resp, cmd.Bool("json"))
}

// APIHealth checks the health endpoint of the server
func (r *Runner) APIHealth(ctx context.Context, cmd *cli.Command) error {
	api := r.client(cmd.String("url"))
	r.logger.Info("checking server health", "url", api.BaseURL())

	resp, err := api.Health(ctx)
	if resp != nil {
		if werr := r.writeResponse(resp, cmd.Bool("json")); werr != nil && err == nil {
			return werr
		}
	}
	return err
}

// writeResponse prints the response body, pretty-printing JSON unless compact is set,
// and returns an error for 4xx and 5xx statuses.
func (r *Runner) writeResponse(resp *services.APIResponse, compact bool) error {
	if resp.IsJSON {
		if err := r.writeJSON(resp.JSONData, !compact); err != nil {
			return err
		}
	} else if len(resp.Body) > 0 {
		r.output.Write(resp.Body)
		r.output.Write([]byte("\n"))
	}
	return resp.Err()
}

func requestPath(cmd *cli.Command) (string, error) {
	path := cmd.StringArg("path")
	if path == "" {
		return "", fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if path[0] != '/' {
		path = "/" + path
	}
	return path, nil
}

func requestBody(cmd *cli.Command) (string, []byte, error) {
	path, err := requestPath(cmd)
	if err != nil {
		return "", nil, err
	}

	data := cmd.String("data")
	if data == "" {
		return "", nil, fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}

	var jsonTest any
	if err := json.Unmarshal([]byte(data), &jsonTest); err != nil {
		return "", nil, fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
	}
	return path, []byte(data), nil
}
