package widgets

// Shared style and script fragments. Per-kind fragments below hold only the
// render function for that view and its action wiring; everything reusable
// lives here so the four documents stay consistent.

const sharedStyle = `    * {
      margin: 0;
      padding: 0;
      box-sizing: border-box;
    }

    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
      background: #ffffff;
    }

    .loading {
      text-align: center;
      padding: 40px;
      color: #6b7280;
    }

    .conn-warning {
      background: #fef3c7;
      color: #92400e;
      padding: 10px 16px;
      font-size: 13px;
      text-align: center;
    }
`

// sharedScript provides escaping, price formatting, image placeholders, the
// host bridge, and the data-acquisition bootstrap. Widgets call sendToHost for
// every outbound action; when no hosting frame exists the bridge surfaces a
// visible "not connected" banner instead of silently dropping the message.
const sharedScript = `      function esc(value) {
        return String(value == null ? '' : value).replace(/[&<>"']/g, function (ch) {
          return { '&': '&amp;', '<': '&lt;', '>': '&gt;', '"': '&quot;', "'": '&#39;' }[ch];
        });
      }

      function formatPrice(price, currency) {
        if (typeof price !== 'number' || isNaN(price)) {
          return '';
        }
        try {
          return new Intl.NumberFormat(currency === 'VND' ? 'vi-VN' : 'en-US', {
            style: 'currency',
            currency: currency || 'VND'
          }).format(price);
        } catch (e) {
          return price + ' ' + (currency || '');
        }
      }

      function placeholder(size, label) {
        return 'https://via.placeholder.com/' + size + '/f3f4f6/9ca3af?text=' +
          encodeURIComponent(label || 'Image');
      }

      function imageTag(cls, src, label, size) {
        var fallback = placeholder(size, label);
        var url = src || fallback;
        return '<img class="' + cls + '" src="' + esc(url) + '" alt="' + esc(label || 'Image') +
          '" onerror="this.onerror=null;this.src=\'' + fallback + '\'">';
      }

      function showDisconnected() {
        var banner = document.getElementById('connState');
        if (!banner) {
          banner = document.createElement('div');
          banner.id = 'connState';
          banner.className = 'conn-warning';
          document.body.insertBefore(banner, document.body.firstChild);
        }
        banner.textContent = 'Not connected to a host. Actions are unavailable.';
      }

      function sendToHost(message) {
        if (!window.parent || window.parent === window) {
          showDisconnected();
          return;
        }
        window.parent.postMessage(message, '*');
      }

      function bootstrap(render) {
        if (window.__STRUCTURED_CONTENT__) {
          render(window.__STRUCTURED_CONTENT__);
          return;
        }
        window.addEventListener('message', function (event) {
          if (event.data && event.data.structuredContent) {
            render(event.data.structuredContent);
          }
        });
        setTimeout(function () {
          sendToHost({ action: 'requestData' });
        }, 100);
      }
`

// --- Brand list: horizontal card carousel ---

const brandListStyle = `    .carousel-container {
      width: 100%;
      overflow-x: auto;
      overflow-y: hidden;
      -webkit-overflow-scrolling: touch;
      scrollbar-width: none;
      padding: 16px;
    }

    .carousel-container::-webkit-scrollbar {
      display: none;
    }

    .carousel {
      display: flex;
      gap: 12px;
    }

    .card {
      flex: 0 0 280px;
      background: #fff;
      border: 1px solid #e5e7eb;
      border-radius: 12px;
      overflow: hidden;
      cursor: pointer;
      transition: all 0.2s;
      box-shadow: 0 1px 3px rgba(0,0,0,0.08);
    }

    .card:hover {
      box-shadow: 0 4px 12px rgba(0,0,0,0.12);
      transform: translateY(-2px);
    }

    .card-image {
      width: 100%;
      height: 160px;
      object-fit: cover;
      background: #f9fafb;
    }

    .card-content {
      padding: 16px;
    }

    .card-title {
      font-size: 16px;
      font-weight: 600;
      color: #111827;
      margin-bottom: 4px;
    }

    .card-subtitle {
      font-size: 13px;
      color: #6b7280;
      line-height: 1.4;
      margin-bottom: 12px;
      overflow: hidden;
      text-overflow: ellipsis;
      display: -webkit-box;
      -webkit-line-clamp: 2;
      -webkit-box-orient: vertical;
    }

    .card-action {
      display: inline-flex;
      align-items: center;
      gap: 4px;
      font-size: 14px;
      font-weight: 500;
      color: #0066ff;
    }
`

const brandListScript = `
      function renderBrands(data) {
        var brands = (data && data.brands) || [];
        var root = document.getElementById('root');

        if (!brands.length) {
          root.innerHTML = '<div class="loading">No brands available</div>';
          return;
        }

        var cards = brands.map(function (brand) {
          return '<div class="card" data-brand-id="' + esc(brand.id) + '">' +
            imageTag('card-image', brand.logo_url, brand.name, '280x160') +
            '<div class="card-content">' +
              '<div class="card-title">' + esc(brand.name || 'Brand') + '</div>' +
              '<div class="card-subtitle">' + esc(brand.description || 'No description') + '</div>' +
              '<div class="card-action">View products &rarr;</div>' +
            '</div>' +
          '</div>';
        }).join('');

        root.innerHTML = '<div class="carousel-container"><div class="carousel">' + cards + '</div></div>';

        root.querySelectorAll('.card').forEach(function (card) {
          card.addEventListener('click', function () {
            sendToHost({ action: 'selectBrand', brandId: card.getAttribute('data-brand-id') });
          });
        });
      }

      bootstrap(renderBrands);
`

// --- Product list: vertical cards under a brand header ---

const productListStyle = `    body {
      padding: 16px;
    }

    .header {
      margin-bottom: 20px;
    }

    .brand-name {
      font-size: 20px;
      font-weight: 600;
      color: #111827;
      margin-bottom: 4px;
    }

    .brand-desc {
      font-size: 14px;
      color: #6b7280;
    }

    .product-list {
      display: flex;
      flex-direction: column;
      gap: 16px;
    }

    .product-card {
      background: #fff;
      border: 1px solid #e5e7eb;
      border-radius: 12px;
      overflow: hidden;
      cursor: pointer;
      transition: all 0.2s;
    }

    .product-card:hover {
      box-shadow: 0 4px 12px rgba(0,0,0,0.08);
    }

    .product-image {
      width: 100%;
      height: 200px;
      object-fit: cover;
      background: #f9fafb;
    }

    .product-content {
      padding: 16px;
    }

    .product-title {
      font-size: 18px;
      font-weight: 600;
      color: #111827;
      margin-bottom: 8px;
    }

    .product-desc {
      font-size: 14px;
      color: #6b7280;
      line-height: 1.5;
      margin-bottom: 12px;
      overflow: hidden;
      text-overflow: ellipsis;
      display: -webkit-box;
      -webkit-line-clamp: 2;
      -webkit-box-orient: vertical;
    }

    .product-footer {
      display: flex;
      justify-content: space-between;
      align-items: center;
    }

    .product-price {
      font-size: 18px;
      font-weight: 700;
      color: #059669;
    }

    .btn-view {
      background: #0066ff;
      color: white;
      border: none;
      padding: 8px 16px;
      border-radius: 8px;
      font-size: 14px;
      font-weight: 500;
      cursor: pointer;
    }

    .btn-view:hover {
      background: #0052cc;
    }
`

const productListScript = `
      function renderProducts(data) {
        var products = (data && data.products) || [];
        var brand = (data && data.brand) || {};
        var root = document.getElementById('root');

        if (!products.length) {
          root.innerHTML = '<div class="loading">No products available</div>';
          return;
        }

        var cards = products.map(function (product) {
          var price = formatPrice(product.base_price, product.currency);
          var priceBlock = price ? '<div class="product-price">' + esc(price) + '</div>' : '<div></div>';
          return '<div class="product-card" data-product-id="' + esc(product.id) + '">' +
            imageTag('product-image', product.image_url, product.name, '400x200') +
            '<div class="product-content">' +
              '<div class="product-title">' + esc(product.name || 'Product') + '</div>' +
              '<div class="product-desc">' + esc(product.description || 'No description') + '</div>' +
              '<div class="product-footer">' +
                priceBlock +
                '<button class="btn-view" type="button">View details</button>' +
              '</div>' +
            '</div>' +
          '</div>';
        }).join('');

        root.innerHTML =
          '<div class="header">' +
            '<div class="brand-name">' + esc(brand.name || 'Products') + '</div>' +
            '<div class="brand-desc">' + esc(brand.description || '') + '</div>' +
          '</div>' +
          '<div class="product-list">' + cards + '</div>';

        root.querySelectorAll('.product-card').forEach(function (card) {
          card.addEventListener('click', function () {
            sendToHost({ action: 'selectProduct', productId: card.getAttribute('data-product-id') });
          });
        });
      }

      bootstrap(renderProducts);
`

// --- Product detail: image, price, variant grid, back / get-quote actions ---

const productDetailStyle = `    .detail-container {
      max-width: 600px;
      margin: 0 auto;
    }

    .detail-image {
      width: 100%;
      height: 300px;
      object-fit: cover;
      background: #f9fafb;
      border-radius: 12px 12px 0 0;
    }

    .detail-content {
      padding: 20px;
    }

    .brand-badge {
      display: inline-block;
      background: #e0e7ff;
      color: #4338ca;
      padding: 4px 12px;
      border-radius: 16px;
      font-size: 12px;
      font-weight: 600;
      margin-bottom: 12px;
    }

    .detail-title {
      font-size: 24px;
      font-weight: 700;
      color: #111827;
      margin-bottom: 8px;
    }

    .detail-price {
      font-size: 28px;
      font-weight: 700;
      color: #059669;
      margin-bottom: 16px;
    }

    .detail-desc {
      font-size: 15px;
      color: #4b5563;
      line-height: 1.6;
      margin-bottom: 24px;
    }

    .variants-section h3 {
      font-size: 16px;
      font-weight: 600;
      color: #374151;
      margin-bottom: 12px;
    }

    .variant-grid {
      display: grid;
      grid-template-columns: repeat(auto-fill, minmax(140px, 1fr));
      gap: 8px;
      margin-bottom: 24px;
    }

    .variant-option {
      background: #f9fafb;
      border: 2px solid #e5e7eb;
      border-radius: 8px;
      padding: 12px;
      text-align: center;
      transition: all 0.2s;
    }

    .variant-option.in_stock {
      border-color: #10b981;
      background: #d1fae5;
    }

    .variant-option.out_of_stock {
      opacity: 0.5;
    }

    .variant-name {
      font-size: 14px;
      font-weight: 600;
      color: #111827;
      margin-bottom: 4px;
    }

    .variant-price {
      font-size: 13px;
      font-weight: 600;
      color: #059669;
    }

    .variant-status {
      font-size: 11px;
      color: #6b7280;
      margin-top: 4px;
    }

    .action-buttons {
      display: flex;
      gap: 8px;
    }

    .btn {
      flex: 1;
      padding: 14px;
      border-radius: 8px;
      font-size: 15px;
      font-weight: 600;
      border: none;
      cursor: pointer;
      transition: all 0.2s;
    }

    .btn-primary {
      background: #0066ff;
      color: white;
    }

    .btn-primary:hover {
      background: #0052cc;
    }

    .btn-secondary {
      background: #f3f4f6;
      color: #374151;
    }

    .btn-secondary:hover {
      background: #e5e7eb;
    }
`

const productDetailScript = `
      var current = null;

      function stockLabel(status) {
        if (status === 'in_stock') return 'In stock';
        if (status === 'out_of_stock') return 'Out of stock';
        if (status === 'preorder') return 'Pre-order';
        return '';
      }

      function renderProductDetail(data) {
        current = data || {};
        var product = current.product || {};
        var variants = current.variants || [];
        var root = document.getElementById('root');

        if (!product.id) {
          root.innerHTML = '<div class="loading">Product not found</div>';
          return;
        }

        var variantsHtml = '';
        if (variants.length) {
          variantsHtml = '<div class="variants-section">' +
            '<h3>Available options (' + variants.length + ')</h3>' +
            '<div class="variant-grid">' +
            variants.map(function (v) {
              var price = formatPrice(v.price, v.currency);
              return '<div class="variant-option ' + esc(v.stock_status || '') + '">' +
                '<div class="variant-name">' + esc(v.name || 'Option') + '</div>' +
                (price ? '<div class="variant-price">' + esc(price) + '</div>' : '') +
                '<div class="variant-status">' + esc(stockLabel(v.stock_status)) + '</div>' +
              '</div>';
            }).join('') +
            '</div>' +
          '</div>';
        }

        var price = formatPrice(product.base_price, product.currency);
        var badge = current.brandName
          ? '<div class="brand-badge">' + esc(current.brandName) + '</div>'
          : '';

        root.innerHTML =
          '<div class="detail-container">' +
            imageTag('detail-image', product.image_url, product.name, '600x300') +
            '<div class="detail-content">' +
              badge +
              '<div class="detail-title">' + esc(product.name || 'Product') + '</div>' +
              (price ? '<div class="detail-price">' + esc(price) + '</div>' : '') +
              '<div class="detail-desc">' + esc(product.description || 'No description available') + '</div>' +
              variantsHtml +
              '<div class="action-buttons">' +
                '<button class="btn btn-secondary" type="button" id="btnBack">&larr; Back</button>' +
                '<button class="btn btn-primary" type="button" id="btnQuote">Get quote</button>' +
              '</div>' +
            '</div>' +
          '</div>';

        document.getElementById('btnBack').addEventListener('click', function () {
          sendToHost({ action: 'goBack' });
        });
        document.getElementById('btnQuote').addEventListener('click', function () {
          var product = (current && current.product) || {};
          sendToHost({ action: 'submitLead', productId: product.id });
        });
      }

      bootstrap(renderProductDetail);
`

// --- Lead form: static form, structured content only customizes the subtitle ---

const leadFormBody = `  <div class="form-container">
    <div class="form-header">
      <div class="form-title">Request a quote</div>
      <div id="subtitle" class="form-subtitle">Fill in your details</div>
    </div>

    <div id="successMsg" class="success-msg">
      Submitted! We'll contact you soon.
    </div>

    <form id="leadForm">
      <div class="form-group">
        <label class="form-label">Full name *</label>
        <input type="text" name="name" class="form-input" required placeholder="John Doe">
      </div>

      <div class="form-group">
        <label class="form-label">Email *</label>
        <input type="email" name="email" class="form-input" required placeholder="john@example.com">
      </div>

      <div class="form-group">
        <label class="form-label">Phone *</label>
        <input type="tel" name="phone" class="form-input" required placeholder="+84 901234567">
      </div>

      <div class="form-group">
        <label class="form-label">Notes</label>
        <textarea name="notes" class="form-input" placeholder="Any specific requirements..."></textarea>
      </div>

      <button type="submit" class="form-submit">Submit request</button>
    </form>
  </div>`

const leadFormStyle = `    body {
      padding: 24px;
    }

    .form-container {
      max-width: 480px;
      margin: 0 auto;
    }

    .form-header {
      margin-bottom: 24px;
    }

    .form-title {
      font-size: 20px;
      font-weight: 600;
      color: #111827;
      margin-bottom: 4px;
    }

    .form-subtitle {
      font-size: 14px;
      color: #6b7280;
    }

    .form-group {
      margin-bottom: 16px;
    }

    .form-label {
      display: block;
      font-size: 14px;
      font-weight: 500;
      color: #374151;
      margin-bottom: 6px;
    }

    .form-input {
      width: 100%;
      padding: 10px 12px;
      border: 1px solid #d1d5db;
      border-radius: 8px;
      font-size: 14px;
      transition: border-color 0.2s;
    }

    .form-input:focus {
      outline: none;
      border-color: #0066ff;
    }

    textarea.form-input {
      min-height: 80px;
      resize: vertical;
    }

    .form-submit {
      width: 100%;
      background: #0066ff;
      color: white;
      border: none;
      padding: 12px;
      border-radius: 8px;
      font-size: 15px;
      font-weight: 600;
      cursor: pointer;
      transition: all 0.2s;
    }

    .form-submit:hover {
      background: #0052cc;
    }

    .form-submit:disabled {
      background: #9ca3af;
      cursor: not-allowed;
    }

    .success-msg {
      background: #d1fae5;
      color: #065f46;
      padding: 12px;
      border-radius: 8px;
      text-align: center;
      margin-bottom: 16px;
      display: none;
    }

    .success-msg.show {
      display: block;
    }
`

const leadFormScript = `
      var form = document.getElementById('leadForm');
      var submitBtn = form.querySelector('.form-submit');
      var successMsg = document.getElementById('successMsg');
      var subtitle = document.getElementById('subtitle');

      var formContext = null;

      function initForm(data) {
        formContext = data || {};
        if (formContext.productName) {
          subtitle.textContent = 'For: ' + formContext.productName;
        } else if (formContext.brandName) {
          subtitle.textContent = 'For: ' + formContext.brandName;
        }
      }

      form.addEventListener('submit', function (e) {
        e.preventDefault();

        submitBtn.disabled = true;
        submitBtn.textContent = 'Submitting...';

        var formData = new FormData(form);
        var data = {
          name: formData.get('name'),
          email: formData.get('email'),
          phone: formData.get('phone'),
          notes: formData.get('notes'),
          brand_id: (formContext && formContext.brandId) || '',
          product_id: (formContext && formContext.productId) || '',
          variant_id: (formContext && formContext.variantId) || ''
        };

        sendToHost({ action: 'submitLead', data: data });

        successMsg.classList.add('show');
        form.reset();

        setTimeout(function () {
          submitBtn.disabled = false;
          submitBtn.textContent = 'Submit request';
          successMsg.classList.remove('show');
        }, 3000);
      });

      bootstrap(initForm);
`
