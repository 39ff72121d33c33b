package mysql

// ---- bookings ----

const insertBookingSQL = `
INSERT INTO bookings
  (id, guest_name, guest_email, guest_phone, check_in, check_out,
   guests_count, message, payment_method, status, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const selectBookingCols = `
SELECT id, guest_name, guest_email, guest_phone, check_in, check_out,
       guests_count, message, payment_method, status, created_at
FROM bookings
`

const getBookingSQL = selectBookingCols + `WHERE id = ?`

const listBookingsSQL = selectBookingCols + `ORDER BY created_at DESC, id DESC`

// Stays that occupy the calendar. Cancelled bookings free their dates.
const activeRangesSQL = `
SELECT check_in, check_out
FROM bookings
WHERE status IN ('confirmed', 'pending')
`

const updateBookingStatusSQL = `UPDATE bookings SET status = ? WHERE id = ?`

const deleteBookingSQL = `DELETE FROM bookings WHERE id = ?`

// ---- calendar ----

const blockedDatesSQL = `
SELECT date, notes
FROM calendar_availability
WHERE is_available = FALSE
ORDER BY date
`

const listUnavailableDaysSQL = `
SELECT id, date, is_available, notes
FROM calendar_availability
WHERE is_available = FALSE
ORDER BY date
`

const getCalendarDaySQL = `
SELECT id, date, is_available, notes
FROM calendar_availability
WHERE date = ?
`

const insertCalendarDaySQL = `
INSERT INTO calendar_availability (id, date, is_available, notes)
VALUES (?, ?, ?, ?)
`

const updateCalendarDaySQL = `
UPDATE calendar_availability
SET is_available = ?, notes = COALESCE(?, notes)
WHERE id = ?
`

const deleteCalendarDaySQL = `DELETE FROM calendar_availability WHERE id = ?`

const listPricesSQL = `SELECT id, date, price FROM daily_prices ORDER BY date`

const pricesBetweenSQL = `
SELECT id, date, price
FROM daily_prices
WHERE date BETWEEN ? AND ?
ORDER BY date
`

// The unique key on date turns a second price for the same day into an update.
const upsertPriceSQL = `
INSERT INTO daily_prices (id, date, price)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  price      = VALUES(price),
  updated_at = CURRENT_TIMESTAMP
`

const deletePriceSQL = `DELETE FROM daily_prices WHERE id = ?`

// ---- content ----

const listGallerySQL = `
SELECT id, image_url, title, description, display_order
FROM gallery_images
ORDER BY display_order, created_at
`

const insertGallerySQL = `
INSERT INTO gallery_images (id, image_url, title, description, display_order)
VALUES (?, ?, ?, ?, ?)
`

const listServicesSQL = `
SELECT id, title, description, icon_name, display_order
FROM services
ORDER BY display_order, created_at
`

const insertServiceSQL = `
INSERT INTO services (id, title, description, icon_name, display_order)
VALUES (?, ?, ?, ?, ?)
`

const selectSiteContentCols = `
SELECT id, page, section, content_key, content_value
FROM site_content
`

const getSiteContentSQL = selectSiteContentCols + `WHERE id = ?`

const insertSiteContentSQL = `
INSERT INTO site_content (id, page, section, content_key, content_value)
VALUES (?, ?, ?, ?, ?)
`

const getStorySQL = `
SELECT id, title, content, image_url
FROM story_content
ORDER BY updated_at DESC
LIMIT 1
`

const saveStorySQL = `
INSERT INTO story_content (id, title, content, image_url)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  title     = VALUES(title),
  content   = VALUES(content),
  image_url = VALUES(image_url)
`

const getContactSQL = `
SELECT id, phone, email, address, whatsapp, instagram, facebook
FROM contact_info
ORDER BY updated_at DESC
LIMIT 1
`

const saveContactSQL = `
INSERT INTO contact_info (id, phone, email, address, whatsapp, instagram, facebook)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  phone     = VALUES(phone),
  email     = VALUES(email),
  address   = VALUES(address),
  whatsapp  = VALUES(whatsapp),
  instagram = VALUES(instagram),
  facebook  = VALUES(facebook)
`

// ---- reviews ----

const selectReviewCols = `
SELECT id, guest_name, content, rating, external_source, external_link, is_published, created_at
FROM reviews
`

const listReviewsSQL = selectReviewCols + `ORDER BY created_at DESC, id DESC`

const listPublishedReviewsSQL = selectReviewCols + `WHERE is_published = TRUE ORDER BY created_at DESC, id DESC`

const getReviewSQL = selectReviewCols + `WHERE id = ?`

const insertReviewSQL = `
INSERT INTO reviews
  (id, guest_name, content, rating, external_source, external_link, is_published, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

const setReviewPublishedSQL = `UPDATE reviews SET is_published = ? WHERE id = ?`

const deleteReviewSQL = `DELETE FROM reviews WHERE id = ?`

// ---- admins ----

const getAdminByEmailSQL = `
SELECT id, email, password_hash
FROM admin_users
WHERE email = ?
`

const hasAdminRoleSQL = `
SELECT COUNT(*)
FROM admin_roles
WHERE user_id = ? AND role = 'admin'
`
