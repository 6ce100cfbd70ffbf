// common.go
//
// CanConnect e-government portal service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of canconnect.
// canconnect is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// canconnect is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with canconnect.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/canconnect/internal/utils"
	"github.com/localnerve/canconnect/internal/validate"
)

const validationErrorType = "data.validation.input"

// decodeBody validates the raw body against schema and decodes it into target.
// On failure the 400 response has already been written and ok is false.
func decodeBody(c *fiber.Ctx, schema *validate.Schema, target interface{}) (ok bool, err error) {
	body := c.Body()
	if verr := schema.Validate(body); verr != nil {
		return false, utils.ErrorResponse(c, verr.Error(), fiber.StatusBadRequest, validationErrorType)
	}
	if jerr := json.Unmarshal(body, target); jerr != nil {
		return false, utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, validationErrorType)
	}
	return true, nil
}

// parseList extracts a query parameter that may be repeated or comma-separated
func parseList(c *fiber.Ctx, name string) []string {
	seen := make(map[string]struct{})
	var out []string

	args := c.Context().QueryArgs()
	for _, value := range args.PeekMulti(name) {
		for _, v := range strings.Split(string(value), ",") {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}

	return out
}
